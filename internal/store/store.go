package store

import (
	"context"
	"regexp"

	"romanchat-backend/internal/models"
)

// TranscriptStore defines the interface for transcript persistence.
// This allows for mocking in tests and potential storage backend switching.
type TranscriptStore interface {
	// Load returns the stored messages for a nickname, oldest first. It
	// never fails the caller: an unreadable or corrupt transcript is
	// logged and treated as empty history.
	Load(ctx context.Context, nickname string) []models.Message

	// Append adds one message with a store-assigned timestamp, creating
	// the transcript lazily on first write.
	Append(ctx context.Context, nickname, role, content string) error

	// Replace swaps the whole transcript for the given turns, stamping
	// each with the current time.
	Replace(ctx context.Context, nickname string, messages []models.ChatMessage) error

	// Clear empties the transcript but keeps the owner's file in place.
	Clear(ctx context.Context, nickname string) error
}

var unsafeNicknameChars = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// SanitizeNickname maps a raw nickname to a key that is safe to use as a
// file name. Distinct nicknames can sanitize to the same key; colliding
// nicknames intentionally share one transcript.
func SanitizeNickname(nickname string) string {
	return unsafeNicknameChars.ReplaceAllString(nickname, "_")
}
