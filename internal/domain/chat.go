package domain

// Speaker roles for conversation turns and completion messages. The wire
// values match the OpenAI-compatible chat role strings so turns can be
// replayed to the completion service without translation.
const (
	SpeakerHuman     = "user"
	SpeakerAssistant = "assistant"
)

// ChatMessage is the provider-agnostic chat message shape used by the chat
// service and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
