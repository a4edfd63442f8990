package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDecimal renders f as the shortest decimal that round-trips, always with
// a fractional part: 3 -> "3.0", 2.5 -> "2.5", 1/3 -> "0.3333333333333333".
func FormatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// ParseDecimal accepts both "3.5" and "3,5". NaN and infinities are rejected.
func ParseDecimal(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// SingleLine collapses line breaks so multi-line report text fits a table cell.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
