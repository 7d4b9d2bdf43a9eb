// Package exprparser turns patient gene-expression uploads into a mapping
// from reference transcript identifiers to linear fold-changes. Uploads come
// in two shapes: "standard" files that already carry a transcript identifier
// and a linear fold-change, and DESeq2 differential-expression output that
// carries a gene symbol and a log2 fold-change. The package detects which
// shape a file has from its column names, resolves identifiers or symbols
// against a read-only reference snapshot, and reports match statistics.
//
// The package is pure: it never touches the filesystem or a database. The
// reference snapshots (ReferenceIDs, GeneSymbolMap) are fetched up front by
// the caller (see the refdb package) and passed in as plain data.
package exprparser
