package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"romanchat-backend/internal/models"
)

// Stream yields assistant text fragments as the provider produces them.
// Recv returns io.EOF once the completion has finished. Close releases the
// underlying connection and must always be called.
type Stream interface {
	Recv() (string, error)
	Close()
}

// Streamer opens a streaming chat completion for an ordered conversation.
// The conversation passed in is sent upstream as-is; directive handling is
// the caller's concern.
type Streamer interface {
	StreamChat(ctx context.Context, messages []models.ChatMessage) (Stream, error)
}

// OpenAIStreamer calls the OpenAI chat-completions API in streaming mode
// with a fixed model.
type OpenAIStreamer struct {
	client *openai.Client
	model  string
}

// NewOpenAIStreamer creates a streamer for the given API key and model.
func NewOpenAIStreamer(apiKey, model string) *OpenAIStreamer {
	return &OpenAIStreamer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// StreamChat implements Streamer.
func (o *OpenAIStreamer) StreamChat(ctx context.Context, messages []models.ChatMessage) (Stream, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
		Stream:   true,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	upstream, err := o.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to open completion stream: %w", err)
	}
	return &openaiStream{inner: upstream}, nil
}

type openaiStream struct {
	inner *openai.ChatCompletionStream
}

// Recv skips empty deltas so callers only ever see non-empty fragments.
func (s *openaiStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("failed to read completion stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *openaiStream) Close() {
	s.inner.Close()
}
