package patterns

import (
	"encoding/json"
	"fmt"
	"os"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// patternsSchema validates a persisted pattern set before use. The file is
// hand-editable, so a structural check up front beats scattered nil checks
// in the generator.
const patternsSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["header", "function", "variable", "control_flow", "data_structures", "stats"],
	"properties": {
		"header": {"type": "array", "items": {"type": "string"}},
		"function": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["comment", "signature"],
				"properties": {
					"comment": {"type": "string"},
					"signature": {"type": "string"}
				}
			}
		},
		"variable": {
			"type": "object",
			"additionalProperties": {"type": "array", "items": {"type": "string"}}
		},
		"control_flow": {
			"type": "object",
			"additionalProperties": {"type": "array", "items": {"type": "string"}}
		},
		"data_structures": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["comment", "struct"],
				"properties": {
					"comment": {"type": "string"},
					"struct": {"type": "string"}
				}
			}
		},
		"stats": {
			"type": "object",
			"properties": {
				"files_scanned": {"type": "integer"},
				"comments_found": {"type": "integer"}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("comment_patterns.schema.json", patternsSchema)

// Save writes the set to path as indented JSON.
func Save(set *Set, path string) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode patterns: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write patterns to %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a pattern set from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid patterns JSON in %s: %w", path, err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("patterns file %s failed schema validation: %w", path, err)
	}

	set := NewSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("failed to decode patterns from %s: %w", path, err)
	}
	return set, nil
}
