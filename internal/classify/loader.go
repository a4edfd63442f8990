package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/followups-tracker/internal/entity"
)

// BuildCatalogueJSONSchema returns the JSON-Schema a catalogue file must satisfy.
func BuildCatalogueJSONSchema() map[string]any {
	rule := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":              map[string]any{"type": "string", "minLength": 1},
			"trade":             map[string]any{"type": "string", "minLength": 1},
			"default_hours":     map[string]any{"type": "number", "exclusiveMinimum": 0},
			"default_headcount": map[string]any{"type": "integer", "minimum": 1},
			"match_pattern":     map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"name", "trade", "default_hours", "default_headcount", "match_pattern"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"rules": map[string]any{"type": "array", "minItems": 1, "items": rule},
		},
		"required": []string{"rules"},
	}
}

type catalogueFile struct {
	Rules []entity.TaskRule `json:"rules"`
}

// ParseCatalogue validates raw JSON against the catalogue schema and compiles it.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	if err := validateJSON(BuildCatalogueJSONSchema(), data); err != nil {
		return nil, err
	}
	var f catalogueFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	return NewCatalogue(f.Rules)
}

// LoadCatalogue reads a catalogue file; an empty path yields DefaultCatalogue.
func LoadCatalogue(path string) (*Catalogue, error) {
	if path == "" {
		return DefaultCatalogue(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	c, err := ParseCatalogue(data)
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return c, nil
}

func validateJSON(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalogue.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("catalogue.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal catalogue: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("catalogue does not match schema: %w", err)
	}
	return nil
}
