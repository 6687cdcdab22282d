package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmptySchema(t *testing.T) {
	got := Normalize(map[string]any{})

	assert.Equal(t, map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"required":             []string{},
		"additionalProperties": false,
	}, got)
}

func TestNormalizeDeclaredPropertiesBecomeRequired(t *testing.T) {
	got := Normalize(map[string]any{
		"properties": map[string]any{
			"url":    map[string]any{"type": "string"},
			"method": map[string]any{"type": "string"},
		},
	})

	assert.Equal(t, []string{"method", "url"}, got["required"])
	assert.Equal(t, false, got["additionalProperties"])
}

func TestNormalizeKeepsExplicitAdditionalProperties(t *testing.T) {
	got := Normalize(map[string]any{"additionalProperties": true})
	assert.Equal(t, true, got["additionalProperties"])
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{},
		{"properties": map[string]any{"a": map[string]any{"type": "number"}}},
		{"type": "string", "additionalProperties": true},
		{"properties": map[string]any{"x": 1, "y": 2}, "required": []string{"x"}},
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"type": "string"}
	Normalize(in)
	assert.Equal(t, map[string]any{"type": "string"}, in)
}
