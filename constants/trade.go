package constants

import (
	"strings"
)

type Trade string

const (
	Heizung      Trade = "Heizung"
	Sanitaer     Trade = "Sanitär"
	Leckortung   Trade = "Leckortung"
	Bautrocknung Trade = "Bautrocknung"
	Organisation Trade = "Organisation"
	Maler        Trade = "Maler"
	Fliesenleger Trade = "Fliesenleger"
	Elektro      Trade = "Elektro"
	Tischler     Trade = "Tischler"
)

var allTrades = []Trade{
	Heizung,
	Sanitaer,
	Leckortung,
	Bautrocknung,
	Organisation,
	Maler,
	Fliesenleger,
	Elektro,
	Tischler,
}

// ManualEntryTrades is the choice list offered when a report matched no rule.
var ManualEntryTrades = []Trade{
	Sanitaer,
	Leckortung,
	Bautrocknung,
	Maler,
	Fliesenleger,
	Elektro,
	Tischler,
}

func AsStringSlice() []string {
	result := make([]string, len(allTrades))
	for i, t := range allTrades {
		result[i] = string(t)
	}
	return result
}

// CanonicalizeTrade maps free-form trade labels onto the known set.
func CanonicalizeTrade(input string) (Trade, bool) {
	if strings.TrimSpace(input) == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Trade{
		"sanitaer":        Sanitaer,
		"sanitar":         Sanitaer,
		"installateur":    Sanitaer,
		"heizungsbau":     Heizung,
		"hls":             Heizung,
		"elektrik":        Elektro,
		"elektriker":      Elektro,
		"trocknung":       Bautrocknung,
		"fliesen":         Fliesenleger,
		"tischlerei":      Tischler,
		"schreiner":       Tischler,
		"maler/lackierer": Maler,
		"termin":          Organisation,
	}

	if t, ok := synonyms[normalized]; ok {
		return t, true
	}

	for _, t := range allTrades {
		if normalized == strings.ToLower(string(t)) {
			return t, true
		}
	}

	return "", false
}
