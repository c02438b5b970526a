package domain

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fuzzyThreshold is the Jaro-Winkler similarity above which a whole title
// or artist counts as a match for a mistyped query.
const fuzzyThreshold = 0.85

var jaroWinkler = metrics.NewJaroWinkler()

// matchesSearch reports whether query finds the row by title or artist.
func matchesSearch(row TrackRow, query string) bool {
	q := normalizeSearchInput(query)
	if q == "" {
		return true
	}

	for _, field := range []string{row.Title, row.Artist} {
		candidate := normalizeSearchInput(field)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, q) {
			return true
		}
		if strutil.Similarity(q, candidate, jaroWinkler) >= fuzzyThreshold {
			return true
		}
	}
	return false
}

// normalizeSearchInput lowercases, strips diacritics and collapses
// punctuation runs into single spaces.
func normalizeSearchInput(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), input)
	if err != nil {
		folded = input
	}

	return strings.Join(strings.Fields(cleanSeparators(strings.ToLower(folded))), " ")
}

func cleanSeparators(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}

	return out.String()
}
