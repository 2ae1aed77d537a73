package services

import (
	"context"
	"errors"
	"fmt"

	"romanchat-backend/internal/models"
	"romanchat-backend/internal/store"
)

// ErrInvalidRole is returned when a save request carries a role other than
// user or assistant.
var ErrInvalidRole = errors.New("invalid role")

// TranscriptService handles transcript-related business logic on top of a
// TranscriptStore.
type TranscriptService struct {
	store store.TranscriptStore
}

// NewTranscriptService creates a new TranscriptService.
func NewTranscriptService(s store.TranscriptStore) *TranscriptService {
	return &TranscriptService{store: s}
}

// GetHistory returns the persisted conversation for a nickname, oldest
// first. It never fails; missing or unreadable history is empty history.
func (s *TranscriptService) GetHistory(ctx context.Context, nickname string) []models.Message {
	return s.store.Load(ctx, nickname)
}

// SaveMessage persists one conversation turn. Only user and assistant
// turns may be stored; the system directive never enters a transcript.
func (s *TranscriptService) SaveMessage(ctx context.Context, nickname, role, content string) error {
	if role != models.RoleUser && role != models.RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if err := s.store.Append(ctx, nickname, role, content); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// ClearHistory empties the stored transcript for a nickname. Unlike saves,
// failures here propagate: the destructive action's outcome must be
// visible to the user who confirmed it.
func (s *TranscriptService) ClearHistory(ctx context.Context, nickname string) error {
	if err := s.store.Clear(ctx, nickname); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
