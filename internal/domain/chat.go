package domain

// ChatRole is a role on the completion API wire format.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one conversation turn as sent to the completion boundary.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest is the input to the chat completion boundary.
type ChatRequest struct {
	AgentID  string        `json:"agentId"`
	Messages []ChatMessage `json:"messages"`
	IsDM     bool          `json:"isDM"`
}

// ChatResponse is the completion boundary's reply. On failure Content is
// empty and Error carries a user-facing message.
type ChatResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// ChatRole maps a message sender to its completion API role.
func (m Message) ChatRole() ChatRole {
	if m.Sender == SenderUser {
		return ChatRoleUser
	}
	return ChatRoleAssistant
}

// ToChatMessages converts channel history to the completion wire format.
func ToChatMessages(msgs []Message) []ChatMessage {
	out := make([]ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = ChatMessage{Role: m.ChatRole(), Content: m.Content}
	}
	return out
}
