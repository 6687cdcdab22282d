package chat

// Conversation roles as sent to and received from the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in a conversation transcript. Content is always
// flattened text by the time it reaches a Store; block-structured content
// from the wire is flattened by the protocol package before storage.
type Message struct {
	Index   int    `json:"index"`
	Role    string `json:"role"`
	Content string `json:"content"`
}
