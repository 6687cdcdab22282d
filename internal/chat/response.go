package chat

import (
	"strings"

	"github.com/nerdfault/quill/internal/protocol"
)

// Response is the immutable result of one orchestration run: the last raw
// payload from the remote service plus the views derived from it.
type Response struct {
	raw       map[string]any
	id        string
	toolCalls []protocol.ToolCall
	messages  []Message
	history   []Message
}

// NewResponse wraps a raw payload without live history; History will be
// derived from the payload's own output items.
func NewResponse(raw map[string]any) *Response {
	return newResponse(raw, nil)
}

func newResponse(raw map[string]any, history []Message) *Response {
	parsed := protocol.Messages(raw)
	messages := make([]Message, 0, len(parsed))
	for _, msg := range parsed {
		messages = append(messages, Message{Role: msg.Role, Content: msg.Text})
	}
	return &Response{
		raw:       raw,
		id:        protocol.ResponseID(raw),
		toolCalls: protocol.ToolCalls(raw),
		messages:  messages,
		history:   history,
	}
}

// Raw returns the unmodified response payload.
func (r *Response) Raw() map[string]any {
	return r.raw
}

// ID is the response identifier used to chain follow-up rounds.
func (r *Response) ID() string {
	return r.id
}

// Text joins the text blocks of all message items with newlines.
func (r *Response) Text() string {
	blocks := make([]string, 0, len(r.messages))
	for _, msg := range r.messages {
		blocks = append(blocks, msg.Content)
	}
	return strings.Join(blocks, "\n")
}

// ToolCalls lists the tool calls still requested by this response.
func (r *Response) ToolCalls() []protocol.ToolCall {
	return r.toolCalls
}

// Messages returns the assistant messages extracted from the payload.
func (r *Response) Messages() []Message {
	return r.messages
}

// History returns the conversation with system messages filtered out.
// When the orchestration run tracked live history that is used; otherwise
// the view is derived from the response's own output items.
func (r *Response) History() []Message {
	source := r.history
	if source == nil {
		source = r.messages
	}
	out := make([]Message, 0, len(source))
	for _, msg := range source {
		if msg.Role == RoleSystem {
			continue
		}
		out = append(out, msg)
	}
	return out
}
