package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONSchemaRendersNestedShape(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"tags":  {Type: TypeArray, Items: &Schema{Type: TypeString}},
			"score": {Type: TypeNumber, Description: "0-100"},
		},
		Required: []string{"tags"},
	}

	got := s.JSONSchema()

	assert.Equal(t, "object", got["type"])
	assert.Equal(t, []string{"tags"}, got["required"])
	props := got["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{"type": "string"}}, props["tags"])
	assert.Equal(t, map[string]any{"type": "number", "description": "0-100"}, props["score"])
}

func TestJSONSchemaNil(t *testing.T) {
	var s *Schema
	assert.Empty(t, s.JSONSchema())
}
