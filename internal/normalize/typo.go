package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TypoRule replaces a misspelled or abbreviated word with its canonical form.
type TypoRule struct {
	Word        string
	Replacement string
	re          *regexp.Regexp
}

func newTypoRule(word, replacement string) TypoRule {
	return TypoRule{
		Word:        word,
		Replacement: replacement,
		re:          regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word)),
	}
}

// DefaultTypoRules are applied in order; "hk" must come after the full-word
// fixes since its replacement is itself a corrected word.
var DefaultTypoRules = []TypoRule{
	newTypoRule("hizkörper", "Heizkörper"),
	newTypoRule("heizkörber", "Heizkörper"),
	newTypoRule("rohr bruch", "Rohrbruch"),
	newTypoRule("leckortung", "Leckortung"),
	newTypoRule("trocknung", "Trocknung"),
	newTypoRule("termin", "Termin"),
	newTypoRule("hk", "Heizkörper"),
	newTypoRule("abw", "Abwasser"),
}

// CorrectTypos applies DefaultTypoRules.
func CorrectTypos(text string) string {
	return CorrectTyposWith(text, DefaultTypoRules)
}

// CorrectTyposWith applies each rule once over the whole text, in order.
func CorrectTyposWith(text string, rules []TypoRule) string {
	for _, r := range rules {
		text = r.apply(text)
	}
	return text
}

// apply replaces whole-word occurrences. RE2's \b only knows ASCII word
// characters, so boundaries are checked here against Unicode letters.
func (r TypoRule) apply(text string) string {
	re := r.re
	if re == nil {
		re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(r.Word))
	}
	var b strings.Builder
	last, pos := 0, 0
	for pos <= len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			break
		}
		if !isWordBoundary(text, start) || !isWordBoundary(text, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(r.Replacement)
		last, pos = end, end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// isWordBoundary reports whether i sits between a word and a non-word rune.
func isWordBoundary(s string, i int) bool {
	var before, after bool
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
