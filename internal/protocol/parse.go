// Package protocol builds request payloads for the remote completion API
// and extracts structured views from its raw responses. Parsing is lossy
// but safe: unknown shapes contribute nothing, malformed arguments become
// empty mappings, and nothing here ever returns an error.
package protocol

import (
	"encoding/json"
	"strings"
)

// ToolCall is a model-issued request to run a named local tool.
// Arguments are already parsed; a call with unparsable arguments carries
// an empty mapping.
type ToolCall struct {
	CallID    string
	Name      string
	Arguments map[string]any
}

// ParsedMessage is one message-type output item with its content flattened.
type ParsedMessage struct {
	Role string
	Text string
}

// ResponseID prefers the top-level id, falls back to the nested
// response.id, and returns "" when neither exists.
func ResponseID(payload map[string]any) string {
	if id, ok := payload["id"].(string); ok && id != "" {
		return id
	}
	if nested, ok := payload["response"].(map[string]any); ok {
		if id, ok := nested["id"].(string); ok {
			return id
		}
	}
	return ""
}

// OutputItems returns the response's ordered output sequence, or nil.
func OutputItems(payload map[string]any) []map[string]any {
	raw, ok := payload["output"].([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if item, ok := entry.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

// Messages extracts every message-type output item. Two payload shapes are
// supported: a nested "message" object, or a flat item carrying content and
// role directly. Missing roles default to assistant.
func Messages(payload map[string]any) []ParsedMessage {
	var out []ParsedMessage
	for _, item := range OutputItems(payload) {
		if itemType, _ := item["type"].(string); itemType != "message" {
			continue
		}
		body := item
		if nested, ok := item["message"].(map[string]any); ok {
			body = nested
		}
		role, _ := body["role"].(string)
		if role == "" {
			role = "assistant"
		}
		out = append(out, ParsedMessage{
			Role: role,
			Text: FlattenContent(body["content"]),
		})
	}
	return out
}

// TextBlocks yields one joined string per message-type output item.
func TextBlocks(payload map[string]any) []string {
	messages := Messages(payload)
	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, msg.Text)
	}
	return blocks
}

// Text joins all text blocks with newlines. Zero message items yield "".
func Text(payload map[string]any) string {
	return strings.Join(TextBlocks(payload), "\n")
}

// ToolCalls scans the output sequence for function_call items, plus the
// legacy shape where tool_call entries are wrapped inside a message item's
// tool_calls field.
func ToolCalls(payload map[string]any) []ToolCall {
	var calls []ToolCall
	for _, item := range OutputItems(payload) {
		switch itemType, _ := item["type"].(string); itemType {
		case "function_call":
			calls = append(calls, ToolCall{
				CallID:    callID(item),
				Name:      stringField(item, "name"),
				Arguments: ParseArguments(item["arguments"]),
			})
		case "message":
			body := item
			if nested, ok := item["message"].(map[string]any); ok {
				body = nested
			}
			wrapped, ok := body["tool_calls"].([]any)
			if !ok {
				continue
			}
			for _, entry := range wrapped {
				legacy, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				calls = append(calls, legacyToolCall(legacy))
			}
		}
	}
	return calls
}

func legacyToolCall(entry map[string]any) ToolCall {
	call := ToolCall{CallID: callID(entry)}
	if fn, ok := entry["function"].(map[string]any); ok {
		call.Name = stringField(fn, "name")
		call.Arguments = ParseArguments(fn["arguments"])
		return call
	}
	call.Name = stringField(entry, "name")
	call.Arguments = ParseArguments(entry["arguments"])
	return call
}

// ParseArguments turns a raw arguments value into a mapping. Text is
// JSON-parsed; anything malformed or unrecognized becomes an empty mapping.
func ParseArguments(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil || parsed == nil {
			return map[string]any{}
		}
		return parsed
	default:
		return map[string]any{}
	}
}

// FlattenContent reduces message content to plain text. Content is either
// a flat string or a block sequence; a structured block prefers its text
// field, then a nested content field, then nothing. Plain-string blocks
// pass through as-is. The lossy skip of unknown block shapes is deliberate.
func FlattenContent(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []any:
		var b strings.Builder
		for _, block := range v {
			b.WriteString(flattenBlock(block))
		}
		return b.String()
	default:
		return ""
	}
}

func flattenBlock(block any) string {
	switch v := block.(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return text
		}
		if nested, ok := v["content"]; ok {
			return FlattenContent(nested)
		}
		return ""
	default:
		return ""
	}
}

func callID(item map[string]any) string {
	if id, ok := item["call_id"].(string); ok && id != "" {
		return id
	}
	return stringField(item, "id")
}

func stringField(item map[string]any, key string) string {
	value, _ := item[key].(string)
	return value
}
