// Package dedupe derives the normalized employer-name key used for
// advisory duplicate detection.
package dedupe

import "strings"

// stopwords are removed from names by whole-word match. Kept as data so
// the table can be audited and tested on its own.
var stopwords = []string{
	"inc", "incorporated", "ltd", "limited", "llc", "llp",
	"corp", "corporation", "co", "company",
	"the", "&", "and",
	"group", "holdings", "enterprise", "enterprises",
	"solutions", "services", "consulting",
	"technologies", "tech", "systems",
	"international", "intl", "worldwide", "global",
}

var stopwordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		m[w] = struct{}{}
	}
	return m
}()

// NormalizeEmployerName canonicalizes a free-text employer name:
// lowercase, strip periods and commas, drop whole-word business
// suffixes, strip remaining non-alphanumerics, collapse whitespace,
// trim. An empty input normalizes to "" and an empty key must never be
// treated as matching another employer.
func NormalizeEmployerName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")

	var kept []string
	for _, word := range strings.Fields(s) {
		if _, drop := stopwordSet[word]; drop {
			continue
		}
		word = stripNonAlnum(word)
		if word != "" {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// SameEmployer reports whether two normalized keys identify the same
// employer. Empty keys never match anything.
func SameEmployer(a, b string) bool {
	return a != "" && a == b
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
