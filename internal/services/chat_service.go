package services

import (
	"context"
	"errors"
	"fmt"

	"romanchat-backend/internal/llm"
	"romanchat-backend/internal/models"
)

// SystemDirective is the fixed instruction constraining the assistant's
// topical scope. It is not configurable and is never part of the
// caller-supplied conversation; StreamConversation always places it at
// position 0 of the upstream-bound list.
const SystemDirective = `You are a helpful assistant specialized exclusively in Roman history.
Your role is to answer questions about:
- Ancient Rome, the Roman Empire, Roman Republic
- Roman emperors, senators, generals, and historical figures
- Roman culture, society, military, architecture, law, and politics
- Roman conquests, battles, and wars
- Roman mythology and religion
- The fall of the Roman Empire
- Any topic related to ancient Roman civilization

For any question that is NOT about Roman history, you must politely decline and explain that you can only answer questions about Roman history. Be friendly and helpful, but firm in your limitation.

Example responses for non-Roman history questions:
- "I'm sorry, but I can only answer questions about Roman history. Could you ask me something about ancient Rome instead?"
- "I specialize exclusively in Roman history. Please ask me about the Roman Empire, Roman culture, or any aspect of ancient Roman civilization."

Always be polite, helpful, and enthusiastic when answering questions about Roman history.`

// ErrEmptyConversation is returned when a chat request carries no messages.
var ErrEmptyConversation = errors.New("conversation is empty")

// ChatService forwards conversations to the completion provider.
type ChatService struct {
	streamer llm.Streamer

	// maxHistory caps how many trailing conversation turns are sent
	// upstream per request; zero means unbounded.
	maxHistory int
}

// NewChatService creates a new ChatService.
func NewChatService(streamer llm.Streamer, maxHistory int) *ChatService {
	return &ChatService{
		streamer:   streamer,
		maxHistory: maxHistory,
	}
}

// StreamConversation validates the conversation, prepends the system
// directive, and opens the upstream completion stream. The caller owns the
// returned stream and must close it.
func (s *ChatService) StreamConversation(ctx context.Context, messages []models.ChatMessage) (llm.Stream, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyConversation
	}

	if s.maxHistory > 0 && len(messages) > s.maxHistory {
		messages = messages[len(messages)-s.maxHistory:]
	}

	upstream := make([]models.ChatMessage, 0, len(messages)+1)
	upstream = append(upstream, models.ChatMessage{
		Role:    models.RoleSystem,
		Content: SystemDirective,
	})
	upstream = append(upstream, messages...)

	stream, err := s.streamer.StreamChat(ctx, upstream)
	if err != nil {
		return nil, fmt.Errorf("failed to start completion: %w", err)
	}
	return stream, nil
}
