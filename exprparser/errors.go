package exprparser

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousFormat means neither DESeq2 nor standard detection could
	// resolve both required columns. The caller must supply an explicit
	// mapping via NewMapping or give up.
	ErrAmbiguousFormat = errors.New("could not determine upload format from column names")

	// ErrEmptyFile means the upload had no columns or no data rows at all.
	// This is distinct from a file whose rows were all filtered out, which
	// processes to a zero-count Result.
	ErrEmptyFile = errors.New("upload contains no columns or no rows")

	// ErrNoReference means the caller supplied an empty reference snapshot.
	// Processing without one would mark every row unmatched, which would be
	// a silent lie about the upload rather than about our inputs.
	ErrNoReference = errors.New("no usable reference snapshot supplied")
)

// ColumnNotFoundError reports a mapped column that does not exist in the
// upload, which can only happen with an explicit caller-supplied mapping.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not present in upload", e.Column)
}

// NonNumericError reports a fold-change cell that cannot be parsed as a
// number. On the standard path this poisons the entire file: a corrupted
// fold-change column makes every other value in it suspect.
type NonNumericError struct {
	RowNum int // 1-based data row
	Value  string
}

func (e *NonNumericError) Error() string {
	return fmt.Sprintf("non-numeric fold-change value %q at data row %d", e.Value, e.RowNum)
}
