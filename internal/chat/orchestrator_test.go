package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdfault/quill/internal/tools"
)

// scriptTransport replays canned responses and records every request.
// When the script runs out the last response repeats.
type scriptTransport struct {
	responses []map[string]any
	requests  []map[string]any
	err       error
}

func (s *scriptTransport) Send(ctx context.Context, payload map[string]any) (map[string]any, error) {
	s.requests = append(s.requests, payload)
	if s.err != nil {
		return nil, s.err
	}
	i := len(s.requests) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

func toolCallPayload(id, callID, name, args string) map[string]any {
	return map[string]any{"id": id, "output": []any{
		map[string]any{
			"type":      "function_call",
			"call_id":   callID,
			"name":      name,
			"arguments": args,
		},
	}}
}

type echoTool struct{}

func (e *echoTool) Name() string               { return "echo" }
func (e *echoTool) Description() string        { return "Echo back the given text" }
func (e *echoTool) Parameters() map[string]any { return map[string]any{} }
func (e *echoTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	text, _ := args["text"].(string)
	return "echo: " + text, nil
}

type failTool struct{}

func (f *failTool) Name() string               { return "fail" }
func (f *failTool) Description() string        { return "Always fails" }
func (f *failTool) Parameters() map[string]any { return map[string]any{} }
func (f *failTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	return nil, errors.New("boom")
}

func newTestOrchestrator(t *testing.T, transport *scriptTransport) (*Orchestrator, Store, *MemoryStatus) {
	t.Helper()
	registry := tools.NewRegistry()
	registry.Register(&echoTool{})
	registry.Register(&failTool{})

	store := NewMemoryStore()
	status := NewMemoryStatus()
	orch := NewOrchestrator(Options{
		Transport: transport,
		Store:     store,
		Status:    status,
		Registry:  registry,
		Model:     "gpt-test",
	})
	return orch, store, status
}

func TestRespondEmptyInputIsNoOp(t *testing.T) {
	transport := &scriptTransport{}
	orch, store, _ := newTestOrchestrator(t, transport)

	resp, err := orch.Respond(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, transport.requests)

	messages, err := store.Read()
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestRespondAppendsOneUserMessageBeforeFirstCall(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		responsePayload("resp_1", "hello back"),
	}}
	orch, store, _ := newTestOrchestrator(t, transport)

	resp, err := orch.Respond(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "hello back", resp.Text())

	// exactly one user message was in the outbound input
	require.Len(t, transport.requests, 1)
	input := transport.requests[0]["input"].([]map[string]any)
	users := 0
	for _, item := range input {
		if item["role"] == RoleUser {
			users++
		}
	}
	assert.Equal(t, 1, users)

	messages, err := store.Read()
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, RoleUser, messages[0].Role)
	assert.Equal(t, RoleAssistant, messages[1].Role)
}

func TestRespondRunsToolRoundAndChainsResponseID(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		toolCallPayload("resp_1", "call_1", "echo", `{"text":"hi"}`),
		responsePayload("resp_2", "done"),
	}}
	orch, _, status := newTestOrchestrator(t, transport)

	resp, err := orch.Respond(context.Background(), "use the tool")
	require.NoError(t, err)
	assert.Equal(t, "resp_2", resp.ID())
	assert.Empty(t, resp.ToolCalls())

	require.Len(t, transport.requests, 2)
	followUp := transport.requests[1]
	assert.Equal(t, "resp_1", followUp["previous_response_id"])

	outputs := followUp["input"].([]map[string]any)
	require.Len(t, outputs, 1)
	assert.Equal(t, "function_call_output", outputs[0]["type"])
	assert.Equal(t, "call_1", outputs[0]["call_id"])
	assert.Equal(t, "echo: hi", outputs[0]["output"])

	text, ok := status.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusEnd, text)
}

func TestRespondToolNotFoundIsFedBack(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		toolCallPayload("resp_1", "call_1", "foo", `{}`),
		responsePayload("resp_2", "recovered"),
	}}
	orch, _, _ := newTestOrchestrator(t, transport)

	resp, err := orch.Respond(context.Background(), "try an unknown tool")
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text())

	outputs := transport.requests[1]["input"].([]map[string]any)
	assert.Equal(t, "error: tool not found: foo", outputs[0]["output"])
}

func TestRespondToolFailureDoesNotAbortRound(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		{"id": "resp_1", "output": []any{
			map[string]any{"type": "function_call", "call_id": "call_1", "name": "fail", "arguments": "{}"},
			map[string]any{"type": "function_call", "call_id": "call_2", "name": "echo", "arguments": `{"text":"still here"}`},
		}},
		responsePayload("resp_2", "ok"),
	}}
	orch, _, _ := newTestOrchestrator(t, transport)

	_, err := orch.Respond(context.Background(), "one tool fails")
	require.NoError(t, err)

	outputs := transport.requests[1]["input"].([]map[string]any)
	require.Len(t, outputs, 2)
	assert.True(t, strings.HasPrefix(outputs[0]["output"].(string), "error: "))
	assert.Contains(t, outputs[0]["output"].(string), "boom")
	assert.Equal(t, "echo: still here", outputs[1]["output"])
}

func TestRespondSkipsCallsWithoutID(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		{"id": "resp_1", "output": []any{
			map[string]any{"type": "function_call", "call_id": "", "name": "echo", "arguments": "{}"},
			map[string]any{"type": "function_call", "call_id": "call_2", "name": "echo", "arguments": `{"text":"kept"}`},
		}},
		responsePayload("resp_2", "ok"),
	}}
	orch, _, _ := newTestOrchestrator(t, transport)

	_, err := orch.Respond(context.Background(), "mixed ids")
	require.NoError(t, err)

	outputs := transport.requests[1]["input"].([]map[string]any)
	require.Len(t, outputs, 1)
	assert.Equal(t, "call_2", outputs[0]["call_id"])
}

func TestRespondStopsWhenEveryCallLacksAnID(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		{"id": "resp_1", "output": []any{
			map[string]any{"type": "function_call", "call_id": "", "name": "echo", "arguments": "{}"},
		}},
	}}
	orch, _, status := newTestOrchestrator(t, transport)

	resp, err := orch.Respond(context.Background(), "unusable calls")
	require.NoError(t, err)
	require.NotNil(t, resp)

	// no outputs to feed back means no follow-up request
	assert.Len(t, transport.requests, 1)

	text, _ := status.Status()
	assert.Equal(t, StatusEnd, text)
}

func TestRespondRoundCapStopsAtFiveToolRounds(t *testing.T) {
	// every response keeps asking for tools; the loop must stop anyway
	transport := &scriptTransport{responses: []map[string]any{
		toolCallPayload("resp_1", "call_1", "echo", `{"text":"again"}`),
	}}
	orch, _, status := newTestOrchestrator(t, transport)

	resp, err := orch.Respond(context.Background(), "loop forever")
	require.NoError(t, err)
	require.NotNil(t, resp)

	// 1 initial call + 5 tool rounds, never a 6th
	assert.Len(t, transport.requests, 6)
	// the final response still wants tools; that is a soft exit
	assert.NotEmpty(t, resp.ToolCalls())

	text, _ := status.Status()
	assert.Equal(t, StatusEnd, text)
}

func TestRespondTransportErrorIsFatal(t *testing.T) {
	transport := &scriptTransport{err: errors.New("connection refused")}
	orch, _, status := newTestOrchestrator(t, transport)

	resp, err := orch.Respond(context.Background(), "hello")
	require.Error(t, err)
	assert.Nil(t, resp)

	// no END sentinel for a failed run
	text, _ := status.Status()
	assert.NotEqual(t, StatusEnd, text)
}

func TestRespondHistoryFiltersSystemMessages(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		responsePayload("resp_1", "answer"),
	}}
	orch, store, _ := newTestOrchestrator(t, transport)
	require.NoError(t, store.Append(RoleSystem, "be helpful"))

	resp, err := orch.Respond(context.Background(), "question")
	require.NoError(t, err)

	for _, msg := range resp.History() {
		assert.NotEqual(t, RoleSystem, msg.Role)
	}
	require.Len(t, resp.History(), 2)
	assert.Equal(t, "question", resp.History()[0].Content)
	assert.Equal(t, "answer", resp.History()[1].Content)
}

func TestToolDefinitionsIncludeFileSearchWhenConfigured(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(&echoTool{})
	orch := NewOrchestrator(Options{
		Registry:      registry,
		Store:         NewMemoryStore(),
		Model:         "gpt-test",
		VectorStoreID: "vs_123",
	})

	defs := orch.toolDefinitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "function", defs[0]["type"])
	assert.Equal(t, "echo", defs[0]["name"])
	assert.Equal(t, "file_search", defs[1]["type"])
	assert.Equal(t, []string{"vs_123"}, defs[1]["vector_store_ids"])
}

func TestToolCallResultsAreReportedAsProgress(t *testing.T) {
	transport := &scriptTransport{responses: []map[string]any{
		toolCallPayload("resp_1", "call_1", "echo", `{"text":"hi"}`),
		responsePayload("resp_2", "done"),
	}}
	registry := tools.NewRegistry()
	registry.Register(&echoTool{})

	var seen []string
	status := &recordingStatus{record: &seen}
	orch := NewOrchestrator(Options{
		Transport: transport,
		Store:     NewMemoryStore(),
		Status:    status,
		Registry:  registry,
		Model:     "gpt-test",
	})

	_, err := orch.Respond(context.Background(), "go")
	require.NoError(t, err)

	// one status per remote call, then the sentinel
	require.Len(t, seen, 3)
	assert.Contains(t, seen[1], "echo")
	assert.Equal(t, StatusEnd, seen[2])
}

type recordingStatus struct {
	record *[]string
}

func (r *recordingStatus) SetStatus(text string) {
	*r.record = append(*r.record, text)
}

func (r *recordingStatus) Status() (string, bool) {
	if len(*r.record) == 0 {
		return "", false
	}
	return (*r.record)[len(*r.record)-1], true
}
