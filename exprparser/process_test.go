package exprparser

import (
	"errors"
	"math"
	"testing"

	"gopkg.in/guregu/null.v3"
)

func row(key, value string) Row {
	r := Row{}
	if key != "" {
		r.Key = null.StringFrom(key)
	}
	if value != "" {
		r.Value = null.StringFrom(value)
	}
	return r
}

func TestLinearConversion(t *testing.T) {
	cases := []struct {
		log2 float64
		want float64
	}{
		{0.0, 1.0},
		{1.0, 2.0},
		{-1.0, 0.5},
		{2.0, 4.0},
		{-2.0, 0.25},
	}

	for _, c := range cases {
		if got := Linear(c.log2); math.Abs(got-c.want) > 1e-3 {
			t.Errorf("Linear(%v) = %v, want %v", c.log2, got, c.want)
		}
	}
}

func TestLinearNonFinite(t *testing.T) {
	if !math.IsNaN(Linear(math.NaN())) {
		t.Error("NaN should propagate")
	}
	if !math.IsInf(Linear(math.Inf(1)), 1) {
		t.Error("+Inf should propagate to +Inf")
	}
	if got := Linear(math.Inf(-1)); got != 0 {
		t.Errorf("Linear(-Inf) = %v, want 0", got)
	}
}

func TestProcessDESeq2EndToEnd(t *testing.T) {
	rows := []Row{
		row("BRCA1", "0.6076"),
		row("TP53", "-2.6151"),
		row("UNKNOWN", "2.0"),
	}
	genes := GeneSymbolMap{"BRCA1": "ENST1", "TP53": "ENST2"}

	res, err := ProcessDESeq2(rows, genes, nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Matched != 2 || res.Unmatched != 1 || res.Invalid != 0 {
		t.Errorf("counts = matched %d, unmatched %d, invalid %d", res.Matched, res.Unmatched, res.Invalid)
	}
	if got := res.Updates["ENST1"]; math.Abs(got-1.522) > 1e-2 {
		t.Errorf("ENST1 = %v, want ~1.522", got)
	}
	if got := res.Updates["ENST2"]; math.Abs(got-0.1633) > 1e-3 {
		t.Errorf("ENST2 = %v, want ~0.1633", got)
	}
	if rate := res.Summarize().Rate; rate != "66.7" {
		t.Errorf("rate = %s, want 66.7", rate)
	}
}

func TestProcessDESeq2DuplicateSymbolLastWins(t *testing.T) {
	rows := []Row{
		row("GENE_A", "1.0"),
		row("GENE_A", "1.5"),
	}
	genes := GeneSymbolMap{"GENE_A": "ENST1"}

	res, err := ProcessDESeq2(rows, genes, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := math.Pow(2, 1.5)
	if got := res.Updates["ENST1"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("ENST1 = %v, want %v (the later row)", got, want)
	}
	if res.Matched != 1 {
		t.Errorf("matched = %d, want 1 (one update, not two)", res.Matched)
	}
	if res.Valid != 2 {
		t.Errorf("valid = %d, want 2", res.Valid)
	}
}

func TestProcessDESeq2DropsInvalidRows(t *testing.T) {
	rows := []Row{
		row("", "1.0"),   // null symbol
		row("BRCA1", ""), // null value
		row("BRCA1", "not-a-number"),
		row("  TP53  ", "1.0"), // symbol needs trimming
	}
	genes := GeneSymbolMap{"BRCA1": "ENST1", "TP53": "ENST2"}

	res, err := ProcessDESeq2(rows, genes, nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Invalid != 3 {
		t.Errorf("invalid = %d, want 3", res.Invalid)
	}
	if res.Matched != 1 || res.Updates["ENST2"] != 2.0 {
		t.Errorf("updates = %v", res.Updates)
	}
}

func TestProcessDESeq2NormalizesDriftedSymbols(t *testing.T) {
	rows := []Row{
		row("Brca1", "1.0"),       // case drift
		row("HLA-A", "2.0"),       // punctuation drift
		row("tp53_human", "-1.0"), // species-suffix drift
	}
	genes := GeneSymbolMap{
		"BRCA1": "ENST1",
		"HLAA":  "ENST2",
		"TP53":  "ENST3",
	}

	res, err := ProcessDESeq2(rows, genes, nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Matched != 3 || res.Unmatched != 0 {
		t.Errorf("counts = matched %d, unmatched %d; drifted symbols must still resolve",
			res.Matched, res.Unmatched)
	}
	if res.Updates["ENST1"] != 2.0 || res.Updates["ENST2"] != 4.0 || res.Updates["ENST3"] != 0.5 {
		t.Errorf("updates = %v", res.Updates)
	}
}

func TestProcessDESeq2VerbatimSymbolWins(t *testing.T) {
	// GENEA appears verbatim in the map; the normalized form of GENE-A
	// collides with it but must not shadow the exact hit.
	rows := []Row{row("GENEA", "1.0")}
	genes := GeneSymbolMap{
		"GENEA":  "ENST1",
		"GENE-A": "ENST2",
	}

	res, err := ProcessDESeq2(rows, genes, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := res.Updates["ENST1"]; got != 2.0 {
		t.Errorf("updates = %v; verbatim map hit must win over the normalized index", res.Updates)
	}
}

func TestProcessDESeq2NoReference(t *testing.T) {
	_, err := ProcessDESeq2([]Row{row("BRCA1", "1.0")}, nil, nil)
	if !errors.Is(err, ErrNoReference) {
		t.Errorf("err = %v, want ErrNoReference", err)
	}
}

func TestProcessStandard(t *testing.T) {
	rows := []Row{
		row("ENST001.5", "1.5"), // resolves to unversioned reference id
		row("ENST002", "0.8"),   // resolves to versioned reference id
		row("ENST999", "2.0"),   // no match
		row("", "3.0"),          // dropped
	}
	ref := refSet("ENST001", "ENST002.3")

	res, err := ProcessStandard(rows, ref, nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Matched != 2 || res.Unmatched != 1 || res.Invalid != 1 {
		t.Errorf("counts = matched %d, unmatched %d, invalid %d", res.Matched, res.Unmatched, res.Invalid)
	}
	if res.Updates["ENST001"] != 1.5 || res.Updates["ENST002.3"] != 0.8 {
		t.Errorf("updates = %v", res.Updates)
	}
}

func TestProcessStandardNonNumericFailsFast(t *testing.T) {
	rows := []Row{
		row("ENST001", "1.5"),
		row("ENST002", "abc"),
	}

	_, err := ProcessStandard(rows, refSet("ENST001"), nil)

	var nonNumeric *NonNumericError
	if !errors.As(err, &nonNumeric) {
		t.Fatalf("err = %v, want NonNumericError", err)
	}
	if nonNumeric.RowNum != 2 || nonNumeric.Value != "abc" {
		t.Errorf("error detail = %+v", nonNumeric)
	}
}

func TestProcessStandardLog2Option(t *testing.T) {
	rows := []Row{row("ENST001", "1.0")}

	res, err := ProcessStandard(rows, refSet("ENST001"), &Options{Log2: true})
	if err != nil {
		t.Fatal(err)
	}

	if got := res.Updates["ENST001"]; got != 2.0 {
		t.Errorf("log2 standard column: got %v, want 2.0", got)
	}
}

func TestProcessStandardAllRowsFiltered(t *testing.T) {
	rows := []Row{row("", ""), row("", "")}

	res, err := ProcessStandard(rows, refSet("ENST001"), nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Matched != 0 || res.Unmatched != 0 || res.Invalid != 2 {
		t.Errorf("counts = %+v", res)
	}
	if res.SuccessRate() != 0 {
		t.Errorf("rate = %v, want 0 for empty run", res.SuccessRate())
	}
}

func TestProcessProgressHook(t *testing.T) {
	rows := []Row{
		row("ENST001", "1.0"),
		row("", ""), // filtered rows must not fire the hook
		row("ENST002", "2.0"),
	}

	var seen []int
	opts := &Options{OnRow: func(processed int) { seen = append(seen, processed) }}
	if _, err := ProcessStandard(rows, refSet("ENST001", "ENST002"), opts); err != nil {
		t.Fatal(err)
	}

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("hook calls = %v, want [1 2]", seen)
	}
}
