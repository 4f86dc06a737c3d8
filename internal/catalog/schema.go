package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// inputSchema validates catalog create/update payloads before they reach
// the store, so malformed requests fail with a useful message instead of
// a half-applied mutation.
const inputSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"title":         {"type": "string", "minLength": 1, "maxLength": 200},
		"description":   {"type": "string", "maxLength": 2000},
		"category":      {"type": "string", "maxLength": 100},
		"keywords":      {"type": "array", "items": {"type": "string"}, "maxItems": 32},
		"author":        {"type": "string", "maxLength": 200},
		"visibility":    {"enum": ["public", "private", "password"]},
		"password":      {"type": "string", "maxLength": 200},
		"source_ref":    {"type": "string", "maxLength": 2048},
		"thumbnail_url": {"type": "string", "maxLength": 2048}
	},
	"additionalProperties": false
}`

var compiledInputSchema = jsonschema.MustCompileString("catalog_input.json", inputSchema)

// ValidateInput checks a raw JSON payload against the catalog input schema.
func ValidateInput(raw []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledInputSchema.Validate(v); err != nil {
		return fmt.Errorf("invalid catalog payload: %w", err)
	}
	return nil
}
