package exprparser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Options tunes a processing run. The zero value is valid.
type Options struct {
	// Log2 marks the fold-change values as log2-scaled, so each one is
	// exponentiated before being recorded. ProcessDESeq2 always converts
	// and ignores this; ProcessStandard honors it for uploads whose fold
	// column matched a log2 alias (ColumnMapping.Log2).
	Log2 bool

	// OnRow, if non-nil, is called after each row that survives filtering,
	// with the running count of such rows. Callers use it for periodic
	// progress logging; the core itself never logs.
	OnRow func(processed int)
}

// Linear converts a log2 fold-change to linear scale: 0 -> 1.0, 1 -> 2.0,
// -1 -> 0.5. NaN and infinities propagate through the power unmodified.
func Linear(log2 float64) float64 {
	return math.Pow(2, log2)
}

// ProcessDESeq2 walks DESeq2 rows (gene symbol, log2 fold-change), resolves
// each trimmed symbol through the gene-symbol map, and records the linear
// fold-change under the mapped transcript identifier. A symbol that misses
// the map verbatim is retried in canonical form (NormalizeSymbol) against a
// normalized index of the map, so case or punctuation drift between the
// upload and the reference does not cost a match. Rows with a null symbol or
// null/unparseable log2 cell are dropped and counted invalid; symbols absent
// from the map count unmatched. When two rows resolve to the same identifier
// the later row wins, following input order.
func ProcessDESeq2(rows []Row, genes GeneSymbolMap, opts *Options) (*Result, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("gene symbol map: %w", ErrNoReference)
	}

	normalized := normalizedIndex(genes)

	res := newResult()
	for _, row := range rows {
		if !row.Key.Valid || !row.Value.Valid {
			res.Invalid++
			continue
		}

		log2v, err := strconv.ParseFloat(strings.TrimSpace(row.Value.String), 64)
		if err != nil {
			// DESeq2 marks low-count genes with NA-like spellings; an
			// unparseable cell is a null, not a corrupted file.
			res.Invalid++
			continue
		}

		symbol := strings.TrimSpace(row.Key.String)
		res.Valid++

		id, ok := genes[symbol]
		if !ok {
			id, ok = normalized[NormalizeSymbol(symbol)]
		}

		if ok {
			res.Updates[id] = Linear(log2v)
		} else {
			res.Unmatched++
		}

		if opts != nil && opts.OnRow != nil {
			opts.OnRow(res.Valid)
		}
	}

	res.finish()
	return res, nil
}

// normalizedIndex maps the canonical form of each reference gene symbol to
// its transcript identifier. The empty form is skipped so a blank never
// becomes a lookup key. When two reference symbols collapse to the same
// canonical form, which one wins is unspecified; a verbatim map hit always
// takes priority over this index, so only drifted symbols are affected.
func normalizedIndex(genes GeneSymbolMap) map[string]string {
	idx := make(map[string]string, len(genes))
	for symbol, id := range genes {
		norm := NormalizeSymbol(symbol)
		if norm == "" {
			continue
		}
		if _, seen := idx[norm]; !seen {
			idx[norm] = id
		}
	}

	return idx
}

// ProcessStandard walks standard rows (transcript identifier, fold-change),
// resolves each trimmed identifier through MatchIdentifier, and records the
// fold-change under the matched reference identifier. The fold-change
// column must be numeric throughout: a single unparseable non-null cell
// fails the whole upload before any row is recorded, because a corrupted
// column makes the rest of it untrustworthy. Null cells drop their row as
// invalid, identifiers with no reference match count unmatched, and
// duplicate matches are last-row-wins.
func ProcessStandard(rows []Row, ref ReferenceIDs, opts *Options) (*Result, error) {
	if len(ref) == 0 {
		return nil, fmt.Errorf("reference identifier set: %w", ErrNoReference)
	}

	// File-level precondition, checked before any row is processed.
	values := make([]float64, len(rows))
	for i, row := range rows {
		if !row.Value.Valid {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row.Value.String), 64)
		if err != nil {
			return nil, &NonNumericError{RowNum: i + 1, Value: row.Value.String}
		}
		values[i] = v
	}

	res := newResult()
	for i, row := range rows {
		if !row.Key.Valid || !row.Value.Valid {
			res.Invalid++
			continue
		}

		id := strings.TrimSpace(row.Key.String)
		res.Valid++

		value := values[i]
		if opts != nil && opts.Log2 {
			value = Linear(value)
		}

		if matched, ok := MatchIdentifier(id, ref); ok {
			res.Updates[matched] = value
		} else {
			res.Unmatched++
		}

		if opts != nil && opts.OnRow != nil {
			opts.OnRow(res.Valid)
		}
	}

	res.finish()
	return res, nil
}
