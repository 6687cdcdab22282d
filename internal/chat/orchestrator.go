package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nerdfault/quill/internal/protocol"
	"github.com/nerdfault/quill/internal/schema"
	"github.com/nerdfault/quill/internal/tools"
	"github.com/nerdfault/quill/internal/transport"
)

// MaxToolRounds caps follow-up tool rounds per Respond call. The cap is a
// hard safety bound against the model requesting tools forever; hitting it
// is a soft exit, not an error.
const MaxToolRounds = 5

// Options wires an Orchestrator. Transport, Store and Registry are
// required; the rest have working defaults.
type Options struct {
	Transport     transport.Client
	Store         Store
	Status        StatusReporter
	Registry      *tools.Registry
	Model         string
	VectorStoreID string
	// Env is the shared execution context passed through to tools.
	Env    any
	Logger zerolog.Logger
}

// Orchestrator drives the request/response/tool-execution cycle against
// the remote completion service. One logical thread of control per call:
// tool calls run sequentially and rounds never overlap.
type Orchestrator struct {
	transport     transport.Client
	store         Store
	status        StatusReporter
	registry      *tools.Registry
	invoker       *tools.Invoker
	model         string
	vectorStoreID string
	log           zerolog.Logger
}

func NewOrchestrator(opts Options) *Orchestrator {
	status := opts.Status
	if status == nil {
		status = NewMemoryStatus()
	}
	return &Orchestrator{
		transport:     opts.Transport,
		store:         opts.Store,
		status:        status,
		registry:      opts.Registry,
		invoker:       tools.NewInvoker(opts.Registry, opts.Env),
		model:         opts.Model,
		vectorStoreID: opts.VectorStoreID,
		log:           opts.Logger,
	}
}

// Respond sends userInput to the model, runs any requested tool calls and
// feeds their results back until the model settles on an answer or the
// round cap is hit. Empty input is a no-op returning (nil, nil). Transport
// and store failures are fatal for the call; everything a tool does wrong
// is absorbed into the conversation as a model-visible error string.
func (o *Orchestrator) Respond(ctx context.Context, userInput string) (*Response, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, nil
	}

	if err := o.store.Append(RoleUser, userInput); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	definitions := o.toolDefinitions()

	history, err := o.store.Read()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	input := make([]map[string]any, 0, len(history))
	for _, msg := range history {
		input = append(input, protocol.MessageInput(msg.Role, msg.Content))
	}

	o.status.SetStatus("waiting for " + o.model)
	raw, err := o.transport.Send(ctx, protocol.InitialRequest(o.model, input, definitions))
	if err != nil {
		return nil, err
	}

	resp, err := o.consume(raw)
	if err != nil {
		return nil, err
	}

	for rounds := 0; len(resp.ToolCalls()) > 0 && rounds < MaxToolRounds; rounds++ {
		outputs, summaries := o.runToolCalls(ctx, resp.ToolCalls())
		if len(outputs) == 0 {
			// every call lacked an id; there is nothing to feed back
			break
		}

		o.status.SetStatus(strings.Join(summaries, "; "))
		raw, err = o.transport.Send(ctx, protocol.FollowUpRequest(o.model, outputs, resp.ID(), definitions))
		if err != nil {
			return nil, err
		}

		resp, err = o.consume(raw)
		if err != nil {
			return nil, err
		}
	}

	o.status.SetStatus(StatusEnd)
	return resp, nil
}

// consume stores the round's assistant messages and builds the response
// view with the live history snapshot.
func (o *Orchestrator) consume(raw map[string]any) (*Response, error) {
	for _, msg := range protocol.Messages(raw) {
		if err := o.store.Append(msg.Role, msg.Text); err != nil {
			return nil, fmt.Errorf("append assistant message: %w", err)
		}
	}
	history, err := o.store.Read()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	resp := newResponse(raw, history)
	o.log.Debug().
		Str("response_id", resp.ID()).
		Int("tool_calls", len(resp.ToolCalls())).
		Msg("round consumed")
	return resp, nil
}

// runToolCalls executes one round of tool calls in the order received.
// Calls without an id are skipped; a failure in one call never aborts the
// remaining calls of the same round.
func (o *Orchestrator) runToolCalls(ctx context.Context, calls []protocol.ToolCall) (outputs []map[string]any, summaries []string) {
	for _, call := range calls {
		if call.CallID == "" {
			continue
		}
		result := o.invoker.Invoke(ctx, call)
		outputs = append(outputs, protocol.FunctionCallOutput(result.CallID, result.Output))
		summaries = append(summaries, result.Summary)
	}
	return outputs, summaries
}

// toolDefinitions renders the registry as wire-format tool entries, plus
// the retrieval tool when a document index is configured.
func (o *Orchestrator) toolDefinitions() []map[string]any {
	registered := o.registry.List()
	definitions := make([]map[string]any, 0, len(registered)+1)
	for _, tool := range registered {
		params := schema.Normalize(map[string]any{"properties": tool.Parameters()})
		definitions = append(definitions, protocol.FunctionTool(tool.Name(), tool.Description(), params))
	}
	if o.vectorStoreID != "" {
		definitions = append(definitions, protocol.FileSearchTool(o.vectorStoreID))
	}
	return definitions
}
