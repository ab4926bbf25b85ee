package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildFixtureSchema returns the JSON-Schema (draft 2020-12 subset) a
// replay fixture file must satisfy.
func buildFixtureSchema() map[string]any {
	record := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":           map[string]any{"type": "string", "minLength": 1},
			"phone":        map[string]any{"type": "string", "pattern": `^\d{10}$`},
			"date":         map[string]any{"type": "string", "minLength": 6},
			"telemarketer": map[string]any{"type": "string"},
			"status":       map[string]any{"type": "string", "enum": []string{"open", "review pending", "unknown"}},
			"document_url": map[string]any{"type": "string"},
			"document":     map[string]any{"type": "string"},
		},
		"required": []string{"id", "phone", "date", "status"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"records": map[string]any{"type": "array", "items": record},
		},
		"required": []string{"records"},
	}
}

// validateFixture validates raw fixture bytes against the fixture schema.
func validateFixture(data []byte) error {
	b, err := json.Marshal(buildFixtureSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fixture.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("fixture.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal fixture: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("fixture does not match schema: %w", err)
	}
	return nil
}
