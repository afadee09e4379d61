package chat

import "time"

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"

	// The two interchangeable answer sources. medical_bot is the specialized
	// in-house assistant, gemini the general-purpose one.
	SourceMedicalBot = "medical_bot"
	SourceGemini     = "gemini"
)

// Message is immutable once appended to a session. Source is set only on
// assistant messages that came from a responder; the synthetic apology reply
// carries no source.
type Message struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Sender    string    `json:"sender"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
