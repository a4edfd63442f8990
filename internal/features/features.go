// Package features pulls effort signals out of normalized report text.
package features

import (
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var (
	reDuration  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h`)
	reHeadcount = regexp.MustCompile(`(?i)(\d+)\s*(personen|monteure|helfer)`)
)

// ExtractDuration returns the first "<number>h" value in text.
func ExtractDuration(text string) (float64, bool) {
	for _, m := range reDuration.FindAllStringSubmatchIndex(text, -1) {
		if !startsNumber(text, m[2]) || !unitEnds(text, m[1]) {
			continue
		}
		v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// ExtractHeadcount returns the first "<n> personen|monteure|helfer" value in text.
func ExtractHeadcount(text string) (int, bool) {
	for _, m := range reHeadcount.FindAllStringSubmatchIndex(text, -1) {
		if !startsNumber(text, m[2]) {
			continue
		}
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// Signals bundles both extractions for one text.
type Signals struct {
	Hours        float64
	HasHours     bool
	Headcount    int
	HasHeadcount bool
}

// Extract runs both extractors.
func Extract(text string) Signals {
	var s Signals
	s.Hours, s.HasHours = ExtractDuration(text)
	s.Headcount, s.HasHeadcount = ExtractHeadcount(text)
	return s
}

func startsNumber(s string, i int) bool {
	if i == 0 {
		return true
	}
	c := s[i-1]
	return c < '0' || c > '9'
}

func unitEnds(s string, j int) bool {
	if j >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[j:])
	return !unicode.IsLetter(r)
}
