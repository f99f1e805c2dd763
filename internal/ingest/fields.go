package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// naTokens are placeholder values carriers emit for missing data.
var naTokens = map[string]struct{}{
	"":     {},
	"#N/A": {},
	"NA":   {},
	"N/A":  {},
}

// IsNA reports whether a raw value is a missing-data placeholder.
func IsNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// Carrier exports carry timestamps in local Taiwan time without an
// offset; parsing attaches UTC+8 and never infers a zone from content.
var taipeiTZ = time.FixedZone("UTC+8", 8*60*60)

// Accepted layouts, year/month/day order with optional seconds. The
// single-digit layout tokens also accept zero-padded values.
var tsLayouts = []string{
	"2006/1/2 15:4:5",
	"2006/1/2 15:4",
}

// cjkDateMarks folds 2025年8月30日 13時31分 style timestamps into the
// space-separated form for a second parse attempt.
var (
	cjkDateMarks   = regexp.MustCompile("[年月日時分秒]")
	multiSpace     = regexp.MustCompile(`\s+`)
	tsFoldLayouts  = []string{"2006 1 2 15 4 5", "2006 1 2 15 4"}
	tsFoldTrimSet  = " /-:"
)

// ParseTimestamp parses a raw timestamp value. Returns nil for
// placeholders and anything outside the accepted layouts.
func ParseTimestamp(s string) *time.Time {
	if IsNA(s) {
		return nil
	}
	s = strings.TrimSpace(s)

	for _, layout := range tsLayouts {
		if ts, err := time.ParseInLocation(layout, s, taipeiTZ); err == nil {
			return &ts
		}
	}

	folded := cjkDateMarks.ReplaceAllString(s, " ")
	folded = strings.Trim(multiSpace.ReplaceAllString(folded, " "), tsFoldTrimSet)
	folded = strings.TrimSpace(folded)
	for _, layout := range tsFoldLayouts {
		if ts, err := time.ParseInLocation(layout, folded, taipeiTZ); err == nil {
			return &ts
		}
	}
	return nil
}

var nonDigits = regexp.MustCompile(`[^\d-]`)

// ParseInt coerces a raw value to an integer, tolerating unit suffixes
// and stray characters (e.g. "120°" parses as 120). Returns nil when
// nothing numeric remains.
func ParseInt(s string) *int {
	if IsNA(s) {
		return nil
	}
	cleaned := nonDigits.ReplaceAllString(strings.TrimSpace(s), "")
	if cleaned == "" {
		return nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloat coerces a raw value to a float. Returns nil when the value
// is a placeholder or unparseable.
func ParseFloat(s string) *float64 {
	if IsNA(s) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// Positional uncertainty heuristics, by address marker. Urban cells are
// denser than rural ones.
const (
	accuracyUrban   = 150
	accuracyRural   = 800
	accuracyDefault = 300
)

// EstimateAccuracy assigns a positional-uncertainty radius in meters
// from the cell-site address text alone.
func EstimateAccuracy(addr string) int {
	if strings.Contains(addr, "市") || strings.Contains(addr, "區") {
		return accuracyUrban
	}
	if strings.Contains(addr, "鄉") || strings.Contains(addr, "村") {
		return accuracyRural
	}
	return accuracyDefault
}
