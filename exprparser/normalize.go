package exprparser

import (
	"strings"
	"unicode"
)

// NormalizeSymbol canonicalizes a gene symbol or transcript identifier so
// that case, punctuation, and version differences do not defeat comparison.
// It uppercases, drops UniProt-style species suffixes (BRCA1_HUMAN), strips
// whitespace, hyphens and underscores, strips a trailing .N version, and
// aligns HLA class I spellings. It never fails; the worst case is "".
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(symbol)

	// UniProt-derived names carry a species tag: BRCA1_HUMAN, TRP53_MOUSE.
	if parts := strings.Split(s, "_"); len(parts) == 2 {
		if parts[1] == "HUMAN" || parts[1] == "MOUSE" {
			s = parts[0]
		}
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			return -1
		}
		return r
	}, s)

	s = StripVersion(s)

	// HLA class I genes are written both HLA-A style and HLAA style; after
	// punctuation stripping the two collapse. The class II family (HLA-D*)
	// is exempt, so keep the 4th-byte check explicit and ordered last.
	if strings.HasPrefix(s, "HLA") && len(s) > 3 && s[3] != 'D' {
		s = "HLA" + s[3:]
	}

	return s
}

// StripVersion removes a trailing .N version suffix from a transcript
// identifier (ENST00000311936.4 -> ENST00000311936). Identifiers without a
// purely numeric suffix are returned unchanged.
func StripVersion(id string) string {
	dot := strings.LastIndexByte(id, '.')
	if dot < 0 || dot == len(id)-1 {
		return id
	}

	for _, r := range id[dot+1:] {
		if r < '0' || r > '9' {
			return id
		}
	}

	return id[:dot]
}
