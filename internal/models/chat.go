package models

// Message roles used throughout the API and the persisted transcripts.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is a single conversation turn as exchanged over the API.
// The system directive is never part of a ChatMessage list supplied by a
// client; the server prepends it before calling the completion provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message is one persisted transcript entry. Timestamp is Unix milliseconds,
// assigned by the store at write time. Immutable once written.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Transcript is the full stored conversation history for one nickname.
// This is the exact shape of the per-owner JSON file on disk.
type Transcript struct {
	Nickname    string    `json:"nickname"`
	Messages    []Message `json:"messages"`
	LastUpdated int64     `json:"lastUpdated"`
}
