package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romanchat-backend/internal/llm"
	"romanchat-backend/internal/models"
)

type fakeStream struct {
	chunks []string
	closed bool
}

func (f *fakeStream) Recv() (string, error) {
	if len(f.chunks) == 0 {
		return "", io.EOF
	}
	chunk := f.chunks[0]
	f.chunks = f.chunks[1:]
	return chunk, nil
}

func (f *fakeStream) Close() { f.closed = true }

type fakeStreamer struct {
	received [][]models.ChatMessage
	stream   *fakeStream
	openErr  error
}

func (f *fakeStreamer) StreamChat(_ context.Context, messages []models.ChatMessage) (llm.Stream, error) {
	f.received = append(f.received, messages)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.stream, nil
}

func TestStreamConversationPrependsDirective(t *testing.T) {
	streamer := &fakeStreamer{stream: &fakeStream{}}
	svc := NewChatService(streamer, 0)

	conversation := []models.ChatMessage{
		{Role: models.RoleUser, Content: "Who was Augustus?"},
		{Role: models.RoleAssistant, Content: "The first Roman emperor."},
		{Role: models.RoleUser, Content: "And after him?"},
	}

	_, err := svc.StreamConversation(context.Background(), conversation)
	require.NoError(t, err)

	require.Len(t, streamer.received, 1)
	upstream := streamer.received[0]
	require.Len(t, upstream, len(conversation)+1)
	assert.Equal(t, models.RoleSystem, upstream[0].Role)
	assert.Equal(t, SystemDirective, upstream[0].Content)
	assert.Equal(t, conversation, upstream[1:])
}

func TestStreamConversationRejectsEmpty(t *testing.T) {
	streamer := &fakeStreamer{stream: &fakeStream{}}
	svc := NewChatService(streamer, 0)

	_, err := svc.StreamConversation(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyConversation)
	assert.Empty(t, streamer.received, "upstream must not be called")
}

func TestStreamConversationPropagatesUpstreamError(t *testing.T) {
	streamer := &fakeStreamer{openErr: errors.New("auth failure")}
	svc := NewChatService(streamer, 0)

	_, err := svc.StreamConversation(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello"},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyConversation)
}

func TestStreamConversationTruncatesHistory(t *testing.T) {
	streamer := &fakeStreamer{stream: &fakeStream{}}
	svc := NewChatService(streamer, 2)

	conversation := []models.ChatMessage{
		{Role: models.RoleUser, Content: "one"},
		{Role: models.RoleAssistant, Content: "two"},
		{Role: models.RoleUser, Content: "three"},
		{Role: models.RoleAssistant, Content: "four"},
		{Role: models.RoleUser, Content: "five"},
	}

	_, err := svc.StreamConversation(context.Background(), conversation)
	require.NoError(t, err)

	upstream := streamer.received[0]
	require.Len(t, upstream, 3)
	assert.Equal(t, models.RoleSystem, upstream[0].Role)
	assert.Equal(t, "four", upstream[1].Content)
	assert.Equal(t, "five", upstream[2].Content)
}
