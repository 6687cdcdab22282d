package tools

import (
	"context"
	"net/http"
	"sort"
	"sync"
)

// Tool is a local function the model may ask to run. Parameters returns a
// loose JSON-schema property mapping; the schema package makes it strict
// before it is sent to the model. Argument validation beyond that is each
// tool's own business.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, env any, args map[string]any) (any, error)
}

// Env is the shared execution context handed to builtin tools. The invoker
// passes it through untouched; tools that need nothing ignore it.
type Env struct {
	WorkDir    string
	HTTPClient *http.Client
}

// Registry maps tool names to implementations.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its declared name. A later registration with
// a colliding name silently overwrites the earlier one; callers are
// expected to avoid collisions.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// Get looks a tool up by exact name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools ordered by name, so the tool
// definitions sent to the model are stable across rounds.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name() < tools[j].Name()
	})
	return tools
}
