package exprparser

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Result is the outcome of one processing run. Updates maps each resolved
// reference transcript identifier to its final linear fold-change; the
// counts describe what happened to the input rows. A Result is built
// incrementally by the processors and must be treated as immutable once
// returned.
type Result struct {
	Updates map[string]float64

	// Matched is always len(Updates). Duplicate rows that overwrote an
	// earlier update do not count twice.
	Matched int

	// Unmatched counts rows whose symbol or identifier found no reference
	// entry. These are outcomes, not errors.
	Unmatched int

	// Valid counts rows that survived null filtering, whether or not they
	// matched. Invalid counts the dropped rows.
	Valid   int
	Invalid int
}

func newResult() *Result {
	return &Result{Updates: make(map[string]float64)}
}

func (r *Result) finish() {
	r.Matched = len(r.Updates)
}

// SuccessRate is matched / (matched + unmatched) as a percentage, or 0 when
// nothing was processed.
func (r *Result) SuccessRate() float64 {
	total := r.Matched + r.Unmatched
	if total == 0 {
		return 0
	}

	return float64(r.Matched) / float64(total) * 100
}

// Summary is the per-upload report, with the rate preformatted to one
// decimal place. It reads the already-computed counts; nothing new is
// derived here.
type Summary struct {
	Valid     int
	Invalid   int
	Matched   int
	Unmatched int
	Rate      string
}

func (r *Result) Summarize() Summary {
	return Summary{
		Valid:     r.Valid,
		Invalid:   r.Invalid,
		Matched:   r.Matched,
		Unmatched: r.Unmatched,
		Rate:      fmt.Sprintf("%.1f", r.SuccessRate()),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("valid=%d invalid=%d matched=%d unmatched=%d rate=%s%%",
		s.Valid, s.Invalid, s.Matched, s.Unmatched, s.Rate)
}

// Distribution summarizes the applied linear fold-changes, so a human can
// sanity-check an upload at a glance (a median miles from 1.0 usually means
// a double-converted file).
type Distribution struct {
	N      int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

func (r *Result) Distribution() (Distribution, error) {
	if len(r.Updates) == 0 {
		return Distribution{}, nil
	}

	data := make(stats.Float64Data, 0, len(r.Updates))
	for _, v := range r.Updates {
		data = append(data, v)
	}

	var (
		d   = Distribution{N: len(data)}
		err error
	)
	if d.Mean, err = stats.Mean(data); err != nil {
		return d, err
	}
	if d.Median, err = stats.Median(data); err != nil {
		return d, err
	}
	if d.Min, err = stats.Min(data); err != nil {
		return d, err
	}
	if d.Max, err = stats.Max(data); err != nil {
		return d, err
	}

	return d, nil
}
