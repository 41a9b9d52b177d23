package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildResultJSONSchema returns the output contract as a JSON-Schema
// (draft 2020-12 subset) generic map. Downstream price-request generation
// consumes results matching this shape; a result that fails validation is
// still delivered but flagged for verification.
func BuildResultJSONSchema() map[string]any {
	itemProps := map[string]any{
		"description":         map[string]any{"type": "string", "minLength": 3},
		"quantity":            map[string]any{"type": "number", "exclusiveMinimum": 0},
		"unit":                map[string]any{"type": "string", "minLength": 1},
		"reference":           map[string]any{"type": "string"},
		"supplier_code":       map[string]any{"type": "string"},
		"internal_code":       map[string]any{"type": "string"},
		"brand":               map[string]any{"type": "string"},
		"serial_number":       map[string]any{"type": "string"},
		"notes":               map[string]any{"type": "string"},
		"needs_manual_review": map[string]any{"type": "boolean"},
		"is_estimated":        map[string]any{"type": "boolean"},
	}

	props := map[string]any{
		"id":            map[string]any{"type": "string", "minLength": 36, "maxLength": 36},
		"filename":      map[string]any{"type": "string", "minLength": 1},
		"document_type": map[string]any{"type": "string", "minLength": 1},
		"text":          map[string]any{"type": "string"},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           itemProps,
				"required":             []string{"description", "quantity", "unit"},
			},
		},
		"rfq_number":         map[string]any{"type": "string"},
		"needs_verification": map[string]any{"type": "boolean"},
		"extraction_method":  map[string]any{"type": "string", "minLength": 1},
		"deadline":           map[string]any{"type": "string"},
		"contact_name":       map[string]any{"type": "string"},
		"contact_role":       map[string]any{"type": "string"},
		"contact_phone":      map[string]any{"type": "string"},
		"is_urgent":          map[string]any{"type": "boolean"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"id", "filename", "document_type", "items", "extraction_method"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
