package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// wireSchema is derived once from ModelDTO's field tags, the same
// generic-inference style the teacher's MCP tool definitions use this
// library for (tool input schemas inferred from a Go request type).
var wireSchema = mustResolve()

func mustResolve() *jsonschema.Resolved {
	s, err := jsonschema.For[ModelDTO](nil)
	if err != nil {
		panic(fmt.Sprintf("model: failed to derive schema for ModelDTO: %v", err))
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("model: failed to resolve ModelDTO schema: %v", err))
	}
	return resolved
}

// ValidateWire checks raw JSON bytes against the ModelDTO schema before any
// attempt to unmarshal them into domain types, so a malformed document is
// rejected at the boundary with a schema-shaped error instead of surfacing
// as a cryptic nil-slice panic deep inside the engine.
func ValidateWire(data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("model: invalid JSON: %w", err)
	}
	if err := wireSchema.Validate(instance); err != nil {
		return fmt.Errorf("model: schema validation failed: %w", err)
	}
	return nil
}
