// importexpr merges one patient's gene-expression upload into their copy of
// the reference database. It sniffs compression and delimiter, classifies
// the upload as DESeq2 or standard format from its column names (or takes an
// explicit column mapping), resolves symbols/identifiers against the
// reference snapshot, and applies the resulting linear fold-changes as a
// batched update.
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	mediabase "github.com/itsatony/mediabase-sub002"
	_ "github.com/itsatony/mediabase-sub002/compileinfo/compileinfoprint"
	"github.com/itsatony/mediabase-sub002/exprparser"
	"github.com/itsatony/mediabase-sub002/refdb"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var (
		input          string
		driver         string
		dsn            string
		referenceTable string
		targetTable    string
		referenceCSV   string
		idCol          string
		foldCol        string
		formatName     string
		dryRun         bool
		plot           bool
	)
	flag.StringVar(&input, "input", "", "Path to the patient expression upload (.csv/.tsv, optionally gzip/zip/xz/bzip2 compressed)")
	flag.StringVar(&driver, "driver", "sqlite3", "Database driver: sqlite3 or postgres")
	flag.StringVar(&dsn, "database", "", "DSN of the patient database (required unless --reference-csv and --dry-run are both used)")
	flag.StringVar(&referenceTable, "reference-table", "reference_expression", "Table holding the reference transcript_id/gene_symbol rows")
	flag.StringVar(&targetTable, "target-table", "patient_expression", "Table receiving the fold_change updates")
	flag.StringVar(&referenceCSV, "reference-csv", "", "Optional: load the reference snapshot from a table export instead of the database")
	flag.StringVar(&idCol, "id-col", "", "Optional: explicit identifier/symbol column, bypassing detection (requires --fold-col and --format)")
	flag.StringVar(&foldCol, "fold-col", "", "Optional: explicit fold-change column, bypassing detection (requires --id-col and --format)")
	flag.StringVar(&formatName, "format", "", "Optional with --id-col/--fold-col: standard or deseq2")
	flag.BoolVar(&dryRun, "dry-run", false, "Process and report, but do not touch the target table")
	flag.BoolVar(&plot, "plot", false, "Print a histogram of the applied linear fold-changes")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --input")
	}
	if dsn == "" && (referenceCSV == "" || !dryRun) {
		flag.PrintDefaults()
		log.Fatalln("Please provide --database (or --reference-csv together with --dry-run)")
	}

	table, err := readUpload(input)
	if err != nil {
		log.Fatalln(err)
	}

	mapping, err := resolveMapping(table, idCol, foldCol, formatName)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Upload classified as %s format: identifier column %q, fold-change column %q (log2: %t)\n",
		mapping.Format, mapping.IdentifierColumn, mapping.FoldChangeColumn, mapping.Log2)

	rows, err := table.Rows(mapping)
	if err != nil {
		log.Fatalln(err)
	}

	var db *sqlx.DB
	if dsn != "" {
		if db, err = refdb.Open(driver, dsn); err != nil {
			log.Fatalln(err)
		}
		defer db.Close()
	}

	result, err := process(rows, mapping, db, referenceTable, referenceCSV)
	if err != nil {
		log.Fatalln(err)
	}

	report(result)

	// The histogram writes to os.Stdout directly; keep the report ahead of it.
	STDOUT.Flush()

	if plot {
		printHistogram(result)
	}

	if dryRun {
		log.Println("Dry run; not applying updates")
		return
	}

	affected, err := refdb.ApplyUpdates(db, targetTable, result.Updates)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Applied", len(result.Updates), "updates;", affected, "rows affected in", targetTable)
}

// readUpload opens the (possibly compressed) upload, sniffs its delimiter,
// and parses it into a table. Patient files are small, so buffering the
// decompressed bytes beats juggling seeks on a compressed stream.
func readUpload(path string) (*exprparser.Table, error) {
	f, err := os.Open(mediabase.ExpandHome(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rc, err := mediabase.DecompressUpload(f)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	delim := mediabase.DetectDelimiter(bytes.NewReader(raw))
	log.Printf("Determined upload delimiter to be %q\n", string(delim))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, exprparser.ErrEmptyFile
	}

	return exprparser.NewTable(records[0], records[1:])
}

// resolveMapping prefers an explicit caller-supplied mapping and otherwise
// runs detection. Ambiguity is fatal here with a hint about the override
// flags; the core has no business prompting anyone.
func resolveMapping(table *exprparser.Table, idCol, foldCol, formatName string) (exprparser.ColumnMapping, error) {
	if idCol != "" || foldCol != "" || formatName != "" {
		if idCol == "" || foldCol == "" || formatName == "" {
			return exprparser.ColumnMapping{}, errors.New("--id-col, --fold-col and --format must be given together")
		}

		var format exprparser.Format
		switch strings.ToLower(formatName) {
		case "standard":
			format = exprparser.FormatStandard
		case "deseq2":
			format = exprparser.FormatDESeq2
		default:
			return exprparser.ColumnMapping{}, fmt.Errorf("unknown --format %q (want standard or deseq2)", formatName)
		}

		return exprparser.NewMapping(idCol, foldCol, format), nil
	}

	mapping, err := exprparser.Detect(table.Columns)
	if errors.Is(err, exprparser.ErrAmbiguousFormat) {
		return mapping, fmt.Errorf(
			"%w; available columns are %v -- rerun with --id-col, --fold-col and --format",
			err, table.Columns,
		)
	}

	return mapping, err
}

func process(rows []exprparser.Row, mapping exprparser.ColumnMapping, db *sqlx.DB, referenceTable, referenceCSV string) (*exprparser.Result, error) {
	opts := &exprparser.Options{
		Log2: mapping.Log2,
		OnRow: func(processed int) {
			if processed%10000 == 0 {
				log.Println("Processed row", processed)
			}
		},
	}

	if mapping.Format == exprparser.FormatDESeq2 {
		genes, err := loadGeneSymbolMap(db, referenceTable, referenceCSV)
		if err != nil {
			return nil, err
		}
		log.Println("Reference snapshot carries", len(genes), "gene symbols")
		return exprparser.ProcessDESeq2(rows, genes, opts)
	}

	ref, err := loadReferenceIDs(db, referenceTable, referenceCSV)
	if err != nil {
		return nil, err
	}
	log.Println("Reference snapshot carries", len(ref), "transcript identifiers")
	return exprparser.ProcessStandard(rows, ref, opts)
}

func loadReferenceIDs(db *sqlx.DB, table, csvPath string) (exprparser.ReferenceIDs, error) {
	if csvPath == "" {
		return refdb.LoadReferenceIDs(db, table)
	}

	raw, delim, err := readReferenceExport(csvPath)
	if err != nil {
		return nil, err
	}
	return refdb.ReferenceIDsFromCSV(bytes.NewReader(raw), delim)
}

func loadGeneSymbolMap(db *sqlx.DB, table, csvPath string) (exprparser.GeneSymbolMap, error) {
	if csvPath == "" {
		return refdb.LoadGeneSymbolMap(db, table)
	}

	raw, delim, err := readReferenceExport(csvPath)
	if err != nil {
		return nil, err
	}
	return refdb.GeneSymbolMapFromCSV(bytes.NewReader(raw), delim)
}

func readReferenceExport(path string) ([]byte, rune, error) {
	f, err := os.Open(mediabase.ExpandHome(path))
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	rc, err := mediabase.DecompressUpload(f)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, 0, err
	}

	return raw, mediabase.DetectDelimiter(bytes.NewReader(raw)), nil
}

func report(result *exprparser.Result) {
	summary := result.Summarize()
	fmt.Fprintf(STDOUT, "valid_rows\t%d\n", summary.Valid)
	fmt.Fprintf(STDOUT, "invalid_rows\t%d\n", summary.Invalid)
	fmt.Fprintf(STDOUT, "matched\t%d\n", summary.Matched)
	fmt.Fprintf(STDOUT, "unmatched\t%d\n", summary.Unmatched)
	fmt.Fprintf(STDOUT, "success_rate\t%s%%\n", summary.Rate)

	dist, err := result.Distribution()
	if err != nil || dist.N == 0 {
		return
	}
	fmt.Fprintf(STDOUT, "fold_change_mean\t%.4f\n", dist.Mean)
	fmt.Fprintf(STDOUT, "fold_change_median\t%.4f\n", dist.Median)
	fmt.Fprintf(STDOUT, "fold_change_range\t%.4f-%.4f\n", dist.Min, dist.Max)
}
