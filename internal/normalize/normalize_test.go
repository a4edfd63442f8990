package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectTypos(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"misspelled radiator", "heizkörber undicht", "Heizkörper undicht"},
		{"case insensitive", "HIZKÖRPER tropft", "Heizkörper tropft"},
		{"split word", "Rohr Bruch im Bad", "Rohrbruch im Bad"},
		{"abbreviation", "HK im Flur tauschen", "Heizkörper im Flur tauschen"},
		{"abbreviation inside word untouched", "abwasser prüfen", "abwasser prüfen"},
		{"abbreviation standalone", "abw verstopft", "Abwasser verstopft"},
		{"umlaut counts as word rune", "ähk bleibt", "ähk bleibt"},
		{"canonical casing", "neuer termin nötig", "neuer Termin nötig"},
		{"nothing to fix", "Kunde war nicht anwesend", "Kunde war nicht anwesend"},
		{"repeated", "hk und hk", "Heizkörper und Heizkörper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CorrectTypos(tt.in))
		})
	}
}

func TestCorrectTyposIsOrdered(t *testing.T) {
	rules := []TypoRule{
		newTypoRule("hk", "Heizkörper"),
		newTypoRule("heizkörper", "HEIZKÖRPER"),
	}
	// the second rule sees the output of the first
	assert.Equal(t, "HEIZKÖRPER defekt", CorrectTyposWith("hk defekt", rules))
}

func TestNormalizeTimeExpressions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hours", "3h Arbeit", "3.0h arbeit"},
		{"hours with space", "ca. 4 h vor Ort", "ca. 4.0h vor ort"},
		{"minutes", "30min Anfahrt", "0.5h anfahrt"},
		{"hours and minutes", "2h 30min", "2.5h"},
		{"glued hours and minutes", "1h15min", "1.25h"},
		{"decimal comma", "3,5h", "3.5h"},
		{"thirds", "20 min", "0.3333333333333333h"},
		{"unit glued to word", "3 heizkörper", "3 heizkörper"},
		{"minutes word not a unit", "30 minuten", "30 minuten"},
		{"no time", "Kunde war nicht anwesend", "kunde war nicht anwesend"},
		{"two spans", "2h hier, 2h dort", "2.0h hier, 2.0h dort"},
		{"end of text", "dauer 1h", "dauer 1.0h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTimeExpressions(tt.in))
		})
	}
}

func TestNormalizeTimeExpressionsByPosition(t *testing.T) {
	// "5h" appears inside "1.5h" by value; only the real span is rewritten
	got := NormalizeTimeExpressions("5h und 1.5h")
	assert.Equal(t, "5.0h und 1.5h", got)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"Heizkörper riss, 2 Monteure, 3h Arbeit",
		"Rohr Bruch, 2h 45min, 3 Helfer",
		"20min Leckortung",
		"hk 1,5h",
		"",
		"日本語 テキスト 3h",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeScenario(t *testing.T) {
	got := Normalize("Heizkörber riss, 2 Monteure, 3h Arbeit")
	assert.Equal(t, "heizkörper riss, 2 monteure, 3.0h arbeit", got)
}

func TestFindTimeSpans(t *testing.T) {
	spans := FindTimeSpans("a 2h b 45min")
	if assert.Len(t, spans, 2) {
		assert.Equal(t, TimeSpan{Start: 2, End: 4, Hours: 2}, spans[0])
		assert.Equal(t, 0.75, spans[1].Hours)
	}
	assert.Empty(t, FindTimeSpans("keine zeit"))
}

func FuzzNormalize(f *testing.F) {
	f.Add("Heizkörper riss, 2 Monteure, 3h Arbeit")
	f.Add("1,5h 30min hk")
	f.Add("\xff\xfe")
	f.Fuzz(func(t *testing.T, s string) {
		_ = Normalize(s)
	})
}
