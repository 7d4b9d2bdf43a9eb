package mediabase

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetectDelimiter returns the single most likely delimiter rune for a
// CSV-like expression upload. Patient files arrive both comma- and
// tab-separated, and occasionally semicolon-separated from European Excel
// exports, so we sniff rather than assume.
func DetectDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}
