package exprparser

import "fmt"

// ReferenceIDs is a read-only snapshot of the transcript identifiers known
// to the reference database.
type ReferenceIDs map[string]struct{}

// GeneSymbolMap maps a gene symbol to its transcript identifier. When the
// reference carries a symbol more than once, the first-seen identifier wins;
// the loaders in the refdb package enforce that.
type GeneSymbolMap map[string]string

// maxVersionProbe bounds rule 3 below. Ensembl version drift in practice
// stays within the first handful of releases an annotation survives.
const maxVersionProbe = 5

// MatchIdentifier resolves an upload transcript identifier against the
// reference snapshot, tolerating version-suffix mismatches in either
// direction. Rules are tried in order, first hit wins:
//
//  1. exact membership;
//  2. the version-stripped input, verbatim;
//  3. for unversioned input, the input with .1 through .5 appended;
//  4. a scan comparing version-stripped reference ids to the
//     version-stripped input.
//
// Rules 1-3 are deterministic. Rule 4 returns a matching id, not a specific
// one, when several reference ids share a stripped form, since map iteration
// order is not defined. The snapshot is never mutated.
func MatchIdentifier(id string, ref ReferenceIDs) (string, bool) {
	if id == "" || len(ref) == 0 {
		return "", false
	}

	if _, ok := ref[id]; ok {
		return id, true
	}

	stripped := StripVersion(id)
	if stripped != id {
		if _, ok := ref[stripped]; ok {
			return stripped, true
		}
	}

	if stripped == id {
		for v := 1; v <= maxVersionProbe; v++ {
			candidate := fmt.Sprintf("%s.%d", id, v)
			if _, ok := ref[candidate]; ok {
				return candidate, true
			}
		}
	}

	for refID := range ref {
		if StripVersion(refID) == stripped {
			return refID, true
		}
	}

	return "", false
}
