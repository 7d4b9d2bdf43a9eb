// Package refdb is the edge between the expression core and the reference
// store: it fetches the read-only snapshots the core consumes (transcript
// identifier set, gene-symbol map) and applies the core's output as batched
// fold-change updates. Snapshots can come from the live database or from a
// CSV/TSV export of it; either way the core only ever sees plain data.
package refdb

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	"github.com/itsatony/mediabase-sub002/exprparser"
)

// Open connects to the reference store and verifies the connection.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return db, nil
}

// LoadReferenceIDs snapshots the distinct transcript identifiers from the
// reference table. An empty result is reported as ErrNoReference: matching
// against nothing would mark every upload row unmatched and hide the real
// problem.
func LoadReferenceIDs(db *sqlx.DB, table string) (exprparser.ReferenceIDs, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT transcript_id FROM %s WHERE transcript_id IS NOT NULL`,
		table,
	)

	var ids []string
	if err := db.Select(&ids, query); err != nil {
		return nil, pfx.Err(err)
	}

	ref := make(exprparser.ReferenceIDs, len(ids))
	for _, id := range ids {
		ref[id] = struct{}{}
	}

	if len(ref) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, exprparser.ErrNoReference)
	}

	return ref, nil
}

// LoadGeneSymbolMap snapshots the gene-symbol -> transcript-identifier
// mapping from the reference table. Symbols that appear with more than one
// transcript keep the first-seen identifier.
func LoadGeneSymbolMap(db *sqlx.DB, table string) (exprparser.GeneSymbolMap, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT gene_symbol, transcript_id FROM %s
		 WHERE gene_symbol IS NOT NULL AND gene_symbol != '' AND transcript_id IS NOT NULL`,
		table,
	)

	rows, err := db.Queryx(query)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rows.Close()

	genes := make(exprparser.GeneSymbolMap)
	for rows.Next() {
		var symbol, id string
		if err := rows.Scan(&symbol, &id); err != nil {
			return nil, pfx.Err(err)
		}
		if _, seen := genes[symbol]; !seen {
			genes[symbol] = id
		}
	}
	if err := rows.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	if len(genes) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, exprparser.ErrNoReference)
	}

	return genes, nil
}
