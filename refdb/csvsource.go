package refdb

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/itsatony/mediabase-sub002/exprparser"
)

// referenceRecord matches the column names of a reference-table export
// (`transcript_id` and `gene_symbol` headers, any column order).
type referenceRecord struct {
	TranscriptID string `csv:"transcript_id"`
	GeneSymbol   string `csv:"gene_symbol"`
}

func readRecords(r io.Reader, delimiter rune) ([]*referenceRecord, error) {
	// Tell gocsv which delimiter the export uses
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = delimiter
		cr.LazyQuotes = true
		return cr
	})

	records := []*referenceRecord{}
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, pfx.Err(err)
	}

	return records, nil
}

// ReferenceIDsFromCSV builds the transcript-identifier snapshot from an
// exported reference table instead of a live database.
func ReferenceIDsFromCSV(r io.Reader, delimiter rune) (exprparser.ReferenceIDs, error) {
	records, err := readRecords(r, delimiter)
	if err != nil {
		return nil, err
	}

	ref := make(exprparser.ReferenceIDs, len(records))
	for _, record := range records {
		if record.TranscriptID == "" {
			continue
		}
		ref[record.TranscriptID] = struct{}{}
	}

	if len(ref) == 0 {
		return nil, fmt.Errorf("reference export: %w", exprparser.ErrNoReference)
	}

	return ref, nil
}

// GeneSymbolMapFromCSV builds the gene-symbol map from an exported reference
// table, first-seen identifier winning per symbol.
func GeneSymbolMapFromCSV(r io.Reader, delimiter rune) (exprparser.GeneSymbolMap, error) {
	records, err := readRecords(r, delimiter)
	if err != nil {
		return nil, err
	}

	genes := make(exprparser.GeneSymbolMap)
	for _, record := range records {
		if record.GeneSymbol == "" || record.TranscriptID == "" {
			continue
		}
		if _, seen := genes[record.GeneSymbol]; !seen {
			genes[record.GeneSymbol] = record.TranscriptID
		}
	}

	if len(genes) == 0 {
		return nil, fmt.Errorf("reference export: %w", exprparser.ErrNoReference)
	}

	return genes, nil
}
