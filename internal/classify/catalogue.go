package classify

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/followups-tracker/constants"
	"github.com/joseph-ayodele/followups-tracker/internal/entity"
)

// DefaultRules is the built-in standard-task catalogue. Order is output order.
var DefaultRules = []entity.TaskRule{
	{Name: "Heizkörper erneuern", Trade: string(constants.Heizung), DefaultHours: 5, DefaultHeadcount: 2, MatchPattern: `Heizkörper.*riss|Heizkörper.*erneuern`},
	{Name: "Rohrbruch reparieren", Trade: string(constants.Sanitaer), DefaultHours: 5, DefaultHeadcount: 2, MatchPattern: `Rohrbruch|Rohr.*defekt`},
	{Name: "Leckortung", Trade: string(constants.Sanitaer), DefaultHours: 3, DefaultHeadcount: 1, MatchPattern: `Leckortung`},
	{Name: "Trocknung", Trade: string(constants.Bautrocknung), DefaultHours: 1, DefaultHeadcount: 1, MatchPattern: `Trocknung`},
	{Name: "Neuen Termin vereinbaren", Trade: string(constants.Organisation), DefaultHours: 1, DefaultHeadcount: 1, MatchPattern: `Termin|neuer Termin`},
	{Name: "Malerarbeiten", Trade: string(constants.Maler), DefaultHours: 2, DefaultHeadcount: 1, MatchPattern: `Maler`},
	{Name: "Fliesenlegerarbeiten", Trade: string(constants.Fliesenleger), DefaultHours: 3, DefaultHeadcount: 2, MatchPattern: `Fliesen`},
	{Name: "Elektroarbeiten", Trade: string(constants.Elektro), DefaultHours: 2, DefaultHeadcount: 1, MatchPattern: `Elektro`},
	{Name: "Tischlerarbeiten", Trade: string(constants.Tischler), DefaultHours: 3, DefaultHeadcount: 1, MatchPattern: `Tischler`},
}

type compiledRule struct {
	entity.TaskRule
	re *regexp.Regexp
}

// Catalogue is an immutable, compiled set of task rules.
type Catalogue struct {
	rules []compiledRule
}

// NewCatalogue compiles every rule pattern case-insensitively.
func NewCatalogue(rules []entity.TaskRule) (*Catalogue, error) {
	c := &Catalogue{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		re, err := regexp.Compile(`(?i)` + r.MatchPattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): compile pattern: %w", i, r.Name, err)
		}
		c.rules = append(c.rules, compiledRule{TaskRule: r, re: re})
	}
	return c, nil
}

// DefaultCatalogue compiles DefaultRules.
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(DefaultRules)
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns a copy of the catalogue's rules in order.
func (c *Catalogue) Rules() []entity.TaskRule {
	out := make([]entity.TaskRule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.TaskRule
	}
	return out
}

func (c *Catalogue) Len() int { return len(c.rules) }
