package models

// --- Request Structs ---

// ChatRequest defines the expected body for the chat endpoint. Messages must
// be non-empty and ordered oldest first.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// SaveMessageRequest defines the body for persisting one conversation turn.
type SaveMessageRequest struct {
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	Content  string `json:"content"`
}

// ClearMessagesRequest defines the body for clearing a stored transcript.
type ClearMessagesRequest struct {
	Nickname string `json:"nickname"`
}

// --- Response Structs ---

// SuccessResponse is returned by mutation endpoints that have no other
// payload to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HistoryResponse returns the persisted transcript for a nickname, used to
// seed a client's in-memory conversation at page load.
type HistoryResponse struct {
	Nickname string    `json:"nickname"`
	Messages []Message `json:"messages"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
