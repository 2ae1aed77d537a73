package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"romanchat-backend/internal/models"
)

// State identifies where a session is in the submission lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingFirstByte
	StateStreaming
	StateSettledSuccess
	StateSettledError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFirstByte:
		return "awaiting-first-byte"
	case StateStreaming:
		return "streaming"
	case StateSettledSuccess:
		return "settled-success"
	case StateSettledError:
		return "settled-error"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyMessage is returned when a submission has no content after
	// trimming whitespace.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy is returned when a submission is attempted while another
	// one is still streaming.
	ErrBusy = errors.New("a submission is already in flight")
)

// Session drives one conversation against a RomanChat server. It mirrors
// the browser page's behavior: optimistic appends, fire-and-forget
// persistence of each turn, incremental updates per received chunk, and
// rollback of the assistant placeholder on transport errors.
//
// Like the single browser tab it models, a Session runs one submission at
// a time and is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	nickname string
	http     *resty.Client

	state        State
	conversation []models.ChatMessage

	// saves tracks outstanding fire-and-forget persistence calls.
	saves sync.WaitGroup
}

// NewSession creates a session for one nickname against a server base URL.
func NewSession(baseURL, nickname string) *Session {
	return &Session{
		id:       uuid.New(),
		nickname: nickname,
		http:     resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")),
		state:    StateIdle,
	}
}

// Nickname returns the nickname this session persists under.
func (s *Session) Nickname() string { return s.nickname }

// State returns the current submission state.
func (s *Session) State() State { return s.state }

// Conversation returns a copy of the in-memory conversation, oldest first.
func (s *Session) Conversation() []models.ChatMessage {
	out := make([]models.ChatMessage, len(s.conversation))
	copy(out, s.conversation)
	return out
}

// LoadHistory seeds the in-memory conversation from the persisted
// transcript. The stored transcript is the source of truth across
// reloads; whatever the session held before is discarded.
func (s *Session) LoadHistory(ctx context.Context) error {
	var history models.HistoryResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("nickname", s.nickname).
		SetResult(&history).
		Get("/history")
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("history request failed: %s", resp.Status())
	}

	s.conversation = s.conversation[:0]
	for _, m := range history.Messages {
		s.conversation = append(s.conversation, models.ChatMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return nil
}

// Submit sends one user message and streams the assistant reply, invoking
// onUpdate with the accumulated reply text after every received chunk.
// The user turn is appended optimistically and persisted in the
// background before the relay request opens; the assistant turn is
// persisted only after the stream completes. On a transport error the
// assistant placeholder is rolled back and the error returned.
func (s *Session) Submit(ctx context.Context, text string, onUpdate func(partial string)) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if s.state == StateAwaitingFirstByte || s.state == StateStreaming {
		return ErrBusy
	}

	s.state = StateAwaitingFirstByte

	// Optimistic user turn, persisted best-effort in the background.
	s.conversation = append(s.conversation, models.ChatMessage{
		Role:    models.RoleUser,
		Content: text,
	})
	s.saveAsync(models.RoleUser, text)

	// The outbound conversation includes the new user turn but not the
	// assistant placeholder appended below.
	outbound := make([]models.ChatMessage, len(s.conversation))
	copy(outbound, s.conversation)

	s.conversation = append(s.conversation, models.ChatMessage{Role: models.RoleAssistant})
	placeholder := len(s.conversation) - 1

	reply, err := s.streamChat(ctx, outbound, func(accumulated string) {
		s.state = StateStreaming
		s.conversation[placeholder].Content = accumulated
		if onUpdate != nil {
			onUpdate(accumulated)
		}
	})
	if err != nil {
		// Roll the visible conversation back to the user turn.
		s.conversation = s.conversation[:placeholder]
		s.state = StateSettledError
		return err
	}

	s.conversation[placeholder].Content = reply
	s.saveAsync(models.RoleAssistant, reply)
	s.state = StateSettledSuccess
	return nil
}

// streamChat posts the conversation to /chat and reads the plain-text
// response incrementally, calling onChunk with the accumulated text after
// every read.
func (s *Session) streamChat(ctx context.Context, messages []models.ChatMessage, onChunk func(string)) (string, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ChatRequest{Messages: messages}).
		SetDoNotParseResponse(true).
		Post("/chat")
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		io.Copy(io.Discard, body)
		return "", fmt.Errorf("chat request failed: %s", resp.Status())
	}

	var accumulated strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			accumulated.Write(buf[:n])
			onChunk(accumulated.String())
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read response stream: %w", err)
		}
	}
	return accumulated.String(), nil
}

// saveAsync persists one turn without blocking the conversation. Failures
// are logged and otherwise ignored; the conversation continues even if
// persistence is down.
func (s *Session) saveAsync(role, content string) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		resp, err := s.http.R().
			SetBody(models.SaveMessageRequest{
				Nickname: s.nickname,
				Role:     role,
				Content:  content,
			}).
			Post("/save-message")
		if err != nil {
			log.Printf("session %s: failed to save %s message: %v", s.id, role, err)
			return
		}
		if resp.IsError() {
			log.Printf("session %s: save %s message rejected: %s", s.id, role, resp.Status())
		}
	}()
}

// Flush waits for outstanding background persistence calls to finish.
func (s *Session) Flush() {
	s.saves.Wait()
}

// ClearHistory deletes the stored transcript and empties the local
// conversation. Unlike saves this is not best-effort; a failure leaves
// local state untouched and is returned to the caller.
func (s *Session) ClearHistory(ctx context.Context) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(models.ClearMessagesRequest{Nickname: s.nickname}).
		Post("/clear-messages")
	if err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("clear request failed: %s", resp.Status())
	}

	s.conversation = s.conversation[:0]
	s.state = StateIdle
	return nil
}
