package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Snapshot payloads are validated at the HTTP boundary so the normalizer's
// fill-if-missing defaulting stays a conscious fallback for optional
// fields, not a silent repair of drifted required ones.
var snapshotSchema = map[string]any{
	"type":     "object",
	"required": []any{"streak", "accuracy", "xp", "stats"},
	"properties": map[string]any{
		"streak": map[string]any{
			"type":     "object",
			"required": []any{"current"},
			"properties": map[string]any{
				"current": map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"accuracy": map[string]any{
			"type":     "object",
			"required": []any{"overall", "source"},
			"properties": map[string]any{
				"overall": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
				"source":  map[string]any{"type": "string"},
			},
		},
		"xp": map[string]any{
			"type":     "object",
			"required": []any{"total", "currentLevel"},
			"properties": map[string]any{
				"total":        map[string]any{"type": "integer", "minimum": 0},
				"currentLevel": map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"stats": map[string]any{
			"type":     "object",
			"required": []any{"totalMessages", "totalMinutes"},
			"properties": map[string]any{
				"totalMessages": map[string]any{"type": "integer", "minimum": 0},
				"totalMinutes":  map[string]any{"type": "integer", "minimum": 0},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateSnapshot checks raw against the snapshot contract. Returns
// *PayloadError on failure.
func validateSnapshot(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &PayloadError{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSnapshotSchema()
	if err != nil {
		return &PayloadError{Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &PayloadError{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compiledSnapshotSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw
		// bytes. Round-trip through encoding/json to get a clean one.
		defBytes, err := json.Marshal(snapshotSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://progress-snapshot.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}
