package main

import (
	"log"
	"os"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/itsatony/mediabase-sub002/exprparser"
)

// printHistogram renders the applied linear fold-changes as a terminal
// histogram. The bucket count is arbitrary but has worked well for typical
// transcriptome-sized uploads.
func printHistogram(result *exprparser.Result) {
	if len(result.Updates) == 0 {
		return
	}

	values := make([]float64, 0, len(result.Updates))
	for _, v := range result.Updates {
		values = append(values, v)
	}

	hist := histogram.Hist(15, values)
	if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(40)); err != nil {
		log.Println("histogram:", err)
	}
}
