// ABOUTME: Dedup Matcher: pairs occurrences with logged doses on the same day.
// ABOUTME: Compound IDs decide when both sides carry one; names are the fallback.
package engine

import (
	"strings"

	"github.com/harperreed/dose/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds case and Unicode compatibility forms so that
// "ＢＰＣ-157" and "bpc-157" compare equal.
func NormalizeName(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// NameMatches reports whether either name contains the other after
// normalization. The rule is symmetric. Empty names never match.
func NameMatches(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// refersTo decides whether two records name the same compound.
func refersTo(idA, nameA, idB, nameB string) bool {
	if idA != "" && idB != "" {
		return idA == idB
	}
	return NameMatches(nameA, nameB)
}

// FindMatch returns the first log entry on the occurrence's calendar day that
// refers to the same compound, or nil.
func FindMatch(occ models.Occurrence, log []models.DoseEntry) *models.DoseEntry {
	loc := occ.Date.Location()
	day := occ.Day
	if day == "" {
		day = LocalDayKey(occ.Date, nil)
	}

	for i := range log {
		e := &log[i]
		if LocalDayKey(e.Date, loc) != day {
			continue
		}
		if refersTo(occ.CompoundID, occ.PeptideName, e.CompoundID, e.PeptideName) {
			return e
		}
	}
	return nil
}

// IsLogged reports whether a dose matching the occurrence was logged on its day.
func IsLogged(occ models.Occurrence, log []models.DoseEntry) bool {
	return FindMatch(occ, log) != nil
}
