package exprparser

// Format says which shape an upload has.
type Format int

const (
	// FormatStandard uploads carry a transcript identifier and a fold-change
	// that is usually already linear.
	FormatStandard Format = iota

	// FormatDESeq2 uploads carry a gene symbol and a log2 fold-change, so
	// processing needs a symbol lookup and an exponentiation step.
	FormatDESeq2
)

func (f Format) String() string {
	switch f {
	case FormatDESeq2:
		return "DESeq2"
	default:
		return "standard"
	}
}

// ColumnMapping pins down which upload columns hold the identifier (or gene
// symbol) and the fold-change value. It is built once per upload, either by
// Detect or by NewMapping, and is immutable thereafter. Callers may show it
// to a human for confirmation or persist it as an audit trail.
type ColumnMapping struct {
	IdentifierColumn string
	FoldChangeColumn string
	Format           Format

	// Log2 records that the fold-change column is log2-scaled and must be
	// exponentiated row-wise. Always true for DESeq2; true for standard
	// uploads only when the matched column name is a log2 spelling.
	Log2 bool
}

// NewMapping wraps an explicit, caller-supplied column assignment, bypassing
// detection entirely. This is the hook for manual column selection when
// Detect returns ErrAmbiguousFormat: whoever talks to the human hands the
// answer in here.
func NewMapping(identifierColumn, foldChangeColumn string, format Format) ColumnMapping {
	return ColumnMapping{
		IdentifierColumn: identifierColumn,
		FoldChangeColumn: foldChangeColumn,
		Format:           format,
		Log2:             format == FormatDESeq2 || isLog2Alias(foldChangeColumn),
	}
}
