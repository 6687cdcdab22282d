package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedTool struct {
	name string
	desc string
}

func (t *namedTool) Name() string               { return t.name }
func (t *namedTool) Description() string        { return t.desc }
func (t *namedTool) Parameters() map[string]any { return map[string]any{} }
func (t *namedTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	return t.desc, nil
}

func TestRegistryLookupExactMatchOnly(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&namedTool{name: "read_file"})

	_, ok := registry.Get("read_file")
	assert.True(t, ok)
	_, ok = registry.Get("Read_File")
	assert.False(t, ok)
	_, ok = registry.Get("read")
	assert.False(t, ok)
}

func TestRegistryCollisionSilentlyOverwrites(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&namedTool{name: "dup", desc: "first"})
	registry.Register(&namedTool{name: "dup", desc: "second"})

	tool, ok := registry.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "second", tool.Description())
	assert.Len(t, registry.List(), 1)
}

func TestRegistryListSortedByName(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&namedTool{name: "zeta"})
	registry.Register(&namedTool{name: "alpha"})
	registry.Register(&namedTool{name: "mid"})

	listed := registry.List()
	require.Len(t, listed, 3)
	assert.Equal(t, "alpha", listed[0].Name())
	assert.Equal(t, "mid", listed[1].Name())
	assert.Equal(t, "zeta", listed[2].Name())
}

func TestRegisterBuiltins(t *testing.T) {
	registry := NewRegistry()
	RegisterBuiltins(registry)

	for _, name := range []string{"current_time", "http_request", "read_file", "list_dir", "search_text"} {
		_, ok := registry.Get(name)
		assert.True(t, ok, "missing builtin %s", name)
	}
}
