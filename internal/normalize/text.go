// Package normalize canonicalizes the free text found in carrier CDR
// exports: column labels, cell-site addresses and dictionary keys.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// labelPunct is the punctuation stripped from column labels. Full-width
// forms fold to their ASCII counterparts under NFKC before this runs.
const labelPunct = "•·．.-:：;；,/，、。\t"

// CanonLabel canonicalizes a source column label: NFKC fold (full-width
// to half-width), legacy 臺 to 台, whitespace and punctuation removed,
// lower-cased. Matching against the header synonym table happens in this
// canonical space.
func CanonLabel(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "臺", "台")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(labelPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// CanonAddress canonicalizes a cell-site address for dictionary, cache
// and geocoder use. Unlike CanonLabel it keeps punctuation and case:
// only width, the 臺 variant and whitespace are folded.
func CanonAddress(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "臺", "台")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
