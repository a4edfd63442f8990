package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/followups-tracker/internal/utils"
)

var (
	reDecimalComma = regexp.MustCompile(`(\d),(\d)`)
	reHoursPart    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*h`)
	reMinutesPart  = regexp.MustCompile(`^(\d+)\s*min`)
	reMinutesAfter = regexp.MustCompile(`^\s*(\d+)\s*min`)
)

// TimeSpan is a time expression found in normalized text.
type TimeSpan struct {
	Start, End int
	Hours      float64
}

// NormalizeTimeExpressions lower-cases text, turns decimal commas into periods
// and rewrites every "<N>h", "<N>min" or "<N>h <M>min" as "<hours>h".
// Substitution is by position so equal-looking spans are handled independently.
func NormalizeTimeExpressions(text string) string {
	text = strings.ToLower(text)
	text = reDecimalComma.ReplaceAllString(text, "$1.$2")

	spans := FindTimeSpans(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.Start])
		b.WriteString(utils.FormatDecimal(sp.Hours))
		b.WriteByte('h')
		last = sp.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// FindTimeSpans scans s once, left to right, and returns non-overlapping
// time expressions. A number only starts a span at the beginning of a digit
// run, and a unit only counts when no letter follows it.
func FindTimeSpans(s string) []TimeSpan {
	var spans []TimeSpan
	for i := 0; i < len(s); {
		if !isDigit(s[i]) || (i > 0 && isDigit(s[i-1])) {
			i++
			continue
		}
		if sp, ok := matchTimeAt(s, i); ok {
			spans = append(spans, sp)
			i = sp.End
			continue
		}
		i++
	}
	return spans
}

func matchTimeAt(s string, i int) (TimeSpan, bool) {
	rest := s[i:]
	if m := reHoursPart.FindStringSubmatchIndex(rest); m != nil && unitEnds(s, i+m[1]) {
		hours, err := strconv.ParseFloat(rest[m[2]:m[3]], 64)
		if err != nil {
			return TimeSpan{}, false
		}
		end := i + m[1]
		if mm := reMinutesAfter.FindStringSubmatchIndex(s[end:]); mm != nil && unitEnds(s, end+mm[1]) {
			if minutes, err := strconv.Atoi(s[end+mm[2] : end+mm[3]]); err == nil {
				hours += float64(minutes) / 60
				end += mm[1]
			}
		}
		return TimeSpan{Start: i, End: end, Hours: hours}, true
	}
	if m := reMinutesPart.FindStringSubmatchIndex(rest); m != nil && unitEnds(s, i+m[1]) {
		minutes, err := strconv.Atoi(rest[m[2]:m[3]])
		if err != nil {
			return TimeSpan{}, false
		}
		return TimeSpan{Start: i, End: i + m[1], Hours: float64(minutes) / 60}, true
	}
	return TimeSpan{}, false
}

// unitEnds reports whether the unit ending at j is not glued to a longer word.
func unitEnds(s string, j int) bool {
	if j >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[j:])
	return !unicode.IsLetter(r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
