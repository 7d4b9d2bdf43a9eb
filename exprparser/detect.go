package exprparser

import "strings"

// Column-name alias groups, in declared priority order. Detection scans the
// aliases first, so an upload carrying both "gene_symbol" and "symbol"
// resolves to whichever alias ranks higher, not to header order.
var (
	symbolAliases = []string{"symbol", "gene_symbol", "gene_name"}

	log2Aliases = []string{"log2foldchange", "log2fc", "logfc", "lfc"}

	identifierAliases = []string{
		"transcript_id", "transcript", "id", "gene_id", "ensembl_id", "symbol",
	}

	foldChangeAliases = []string{
		"cancer_fold", "fold_change", "expression_fold_change", "fold", "fc",
		"log2foldchange", "logfc",
	}
)

// isLog2Alias reports whether a matched fold-change column name denotes a
// log2-scaled value that must be exponentiated before use.
func isLog2Alias(column string) bool {
	c := strings.TrimSpace(strings.ToLower(column))
	for _, alias := range log2Aliases {
		if c == alias {
			return true
		}
	}
	return false
}

// findColumn returns the first alias (in priority order) with a
// case-insensitive match among the available columns, reporting the
// original-case column name as it appears in the upload.
func findColumn(columns []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for _, col := range columns {
			if strings.EqualFold(strings.TrimSpace(col), alias) {
				return col, true
			}
		}
	}

	return "", false
}

// DetectDESeq2 inspects the available column names for DESeq2 output, which
// must carry both a gene-symbol column and a log2 fold-change column. One
// without the other is not DESeq2.
func DetectDESeq2(columns []string) (symbolColumn, log2Column string, ok bool) {
	symbolColumn, symOK := findColumn(columns, symbolAliases)
	log2Column, logOK := findColumn(columns, log2Aliases)
	if !symOK || !logOK {
		return "", "", false
	}

	return symbolColumn, log2Column, true
}

// DetectStandard inspects the available column names for the standard
// transcript-identifier + fold-change shape.
func DetectStandard(columns []string) (identifierColumn, foldChangeColumn string, ok bool) {
	identifierColumn, idOK := findColumn(columns, identifierAliases)
	foldChangeColumn, foldOK := findColumn(columns, foldChangeAliases)
	if !idOK || !foldOK {
		return "", "", false
	}

	return identifierColumn, foldChangeColumn, true
}

// Detect classifies an upload from its column names. DESeq2 detection runs
// first: a file carrying both a symbol and a log2 column is DESeq2 even if
// the standard aliases would also resolve. If neither shape fully resolves,
// ErrAmbiguousFormat is returned and the caller must supply an explicit
// mapping (NewMapping) or fail.
func Detect(columns []string) (ColumnMapping, error) {
	if symbolColumn, log2Column, ok := DetectDESeq2(columns); ok {
		return ColumnMapping{
			IdentifierColumn: symbolColumn,
			FoldChangeColumn: log2Column,
			Format:           FormatDESeq2,
			Log2:             true,
		}, nil
	}

	if identifierColumn, foldChangeColumn, ok := DetectStandard(columns); ok {
		return ColumnMapping{
			IdentifierColumn: identifierColumn,
			FoldChangeColumn: foldChangeColumn,
			Format:           FormatStandard,
			Log2:             isLog2Alias(foldChangeColumn),
		}, nil
	}

	return ColumnMapping{}, ErrAmbiguousFormat
}
