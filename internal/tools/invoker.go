package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nerdfault/quill/internal/protocol"
)

// CallResult is the model-facing output of one tool call plus a
// human-readable summary for progress reporting.
type CallResult struct {
	CallID  string
	Output  string
	Summary string
}

// Invoker resolves tool calls against a registry and runs them with the
// shared execution context. Every failure mode is absorbed into the
// Output string so the model can see it and recover; nothing a tool does
// propagates to the caller.
type Invoker struct {
	registry *Registry
	env      any
}

func NewInvoker(registry *Registry, env any) *Invoker {
	return &Invoker{registry: registry, env: env}
}

// Invoke runs a single tool call. Unknown names and execution failures
// both become error-tagged output strings, never errors.
func (iv *Invoker) Invoke(ctx context.Context, call protocol.ToolCall) CallResult {
	tool, ok := iv.registry.Get(call.Name)
	if !ok {
		return CallResult{
			CallID:  call.CallID,
			Output:  fmt.Sprintf("error: tool not found: %s", call.Name),
			Summary: fmt.Sprintf("%s: not found", call.Name),
		}
	}

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}

	result, err := iv.execute(ctx, tool, args)
	if err != nil {
		return CallResult{
			CallID:  call.CallID,
			Output:  fmt.Sprintf("error: %v", err),
			Summary: fmt.Sprintf("%s: failed", tool.Name()),
		}
	}

	return CallResult{
		CallID:  call.CallID,
		Output:  renderOutput(result),
		Summary: summarize(tool, result),
	}
}

// execute isolates a single call: a panicking tool is treated the same as
// one returning an error.
func (iv *Invoker) execute(ctx context.Context, tool Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", tool.Name(), r)
		}
	}()
	return tool.Execute(ctx, iv.env, args)
}

// renderOutput serializes non-string results to JSON for the output slot.
func renderOutput(result any) string {
	if text, ok := result.(string); ok {
		return text
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}

// summarize builds the progress string an external collaborator shows the
// user: tool name, description, and the key list of structured results.
func summarize(tool Tool, result any) string {
	summary := fmt.Sprintf("%s: %s", tool.Name(), tool.Description())
	if mapped, ok := result.(map[string]any); ok && len(mapped) > 0 {
		keys := make([]string, 0, len(mapped))
		for key := range mapped {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		summary += " [" + strings.Join(keys, " ") + "]"
	}
	return summary
}
