package models

// Conversation and completion models shared between the chat core and the
// AI gateway.

// MessageRole identifies who authored a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is a single turn in a chat conversation. Messages arrive ordered
// (insertion order = chronological order) and are never mutated.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// TokenUsage carries whatever token accounting the backend reported.
// All fields are best-effort; zero means the backend didn't report it.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// CompletionResult is the normalized response shape returned by every
// completion backend. Callers never see backend-specific payloads.
type CompletionResult struct {
	Message  string     `json:"message"`
	Usage    TokenUsage `json:"usage"`
	Provider string     `json:"provider"`
}
