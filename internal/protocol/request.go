package protocol

// MessageInput is one role-tagged input item for an initial request.
func MessageInput(role, content string) map[string]any {
	return map[string]any{
		"role":    role,
		"content": content,
	}
}

// FunctionCallOutput carries one tool result back to the model.
func FunctionCallOutput(callID, output string) map[string]any {
	return map[string]any{
		"type":    "function_call_output",
		"call_id": callID,
		"output":  output,
	}
}

// FunctionTool describes a local tool to the model. params must already be
// normalized (see the schema package).
func FunctionTool(name, description string, params map[string]any) map[string]any {
	return map[string]any{
		"type":        "function",
		"name":        name,
		"description": description,
		"parameters":  params,
		"strict":      true,
	}
}

// FileSearchTool is the retrieval-augmentation entry for a managed
// document index.
func FileSearchTool(vectorStoreID string) map[string]any {
	return map[string]any{
		"type":             "file_search",
		"vector_store_ids": []string{vectorStoreID},
	}
}

// InitialRequest carries the full conversation history.
func InitialRequest(model string, input []map[string]any, tools []map[string]any) map[string]any {
	req := map[string]any{
		"model": model,
		"input": input,
	}
	if len(tools) > 0 {
		req["tools"] = tools
	}
	return req
}

// FollowUpRequest carries only the new tool outputs, chained to the
// previous round through its response id instead of resending history.
func FollowUpRequest(model string, outputs []map[string]any, previousResponseID string, tools []map[string]any) map[string]any {
	req := map[string]any{
		"model": model,
		"input": outputs,
	}
	if previousResponseID != "" {
		req["previous_response_id"] = previousResponseID
	}
	if len(tools) > 0 {
		req["tools"] = tools
	}
	return req
}
