package exprparser

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Table is one parsed upload: the header names and the raw records beneath
// them, exactly as encoding/csv produced them.
type Table struct {
	Columns []string
	Records [][]string
}

// NewTable validates the empty-file precondition: an upload with no columns
// or no data rows at all is fatal before any processing. A table whose rows
// later all filter out is fine and yields a zero-count Result.
func NewTable(columns []string, records [][]string) (*Table, error) {
	if len(columns) == 0 || len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return &Table{Columns: columns, Records: records}, nil
}

// Row is one upload row reduced to the two roles a ColumnMapping names. The
// fold-change cell stays unparsed here; the processors own numeric policy,
// which differs between the two formats.
type Row struct {
	Key   null.String // transcript identifier or gene symbol
	Value null.String // fold-change cell
}

// Rows extracts the mapped columns from every record, in input order. Cells
// that are empty or carry a CSV null spelling become invalid null values,
// which the processors count as dropped rows. A mapping naming a column the
// upload does not have (possible only with explicit mappings) is an error.
func (t *Table) Rows(m ColumnMapping) ([]Row, error) {
	keyIdx, err := t.columnIndex(m.IdentifierColumn)
	if err != nil {
		return nil, err
	}
	valIdx, err := t.columnIndex(m.FoldChangeColumn)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(t.Records))
	for _, record := range t.Records {
		var row Row
		if keyIdx < len(record) {
			row.Key = nullCell(record[keyIdx])
		}
		if valIdx < len(record) {
			row.Value = nullCell(record[valIdx])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (t *Table) columnIndex(name string) (int, error) {
	for i, col := range t.Columns {
		if col == name {
			return i, nil
		}
	}

	// Explicit mappings are typed by hand; tolerate case drift.
	for i, col := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(col), strings.TrimSpace(name)) {
			return i, nil
		}
	}

	return 0, &ColumnNotFoundError{Column: name}
}

// nullCell maps the null spellings that R and spreadsheet exports leave in
// CSV cells onto an invalid null.String. "NaN" is deliberately not here: it
// parses as a number and propagates, which is the documented behavior for
// non-finite log2 values.
func nullCell(s string) null.String {
	s = strings.TrimSpace(s)
	switch {
	case s == "",
		strings.EqualFold(s, "na"),
		strings.EqualFold(s, "n/a"),
		strings.EqualFold(s, "null"):
		return null.String{}
	}

	return null.StringFrom(s)
}
