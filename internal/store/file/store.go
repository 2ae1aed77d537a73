package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"romanchat-backend/internal/models"
	"romanchat-backend/internal/store"
)

// Store persists one JSON transcript file per sanitized nickname under a
// single directory.
//
// Every write goes through a per-owner mutex and lands via an atomic
// rename, so a concurrent reader in this process never observes a
// partially written file. Writers in other processes are not coordinated;
// the last writer wins on the whole file.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates the storage directory if it does not exist yet.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", dir, err)
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// ownerLock returns the mutex guarding one owner's file, creating it on
// first use.
func (s *Store) ownerLock(owner string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[owner]
	if !ok {
		l = &sync.Mutex{}
		s.locks[owner] = l
	}
	return l
}

func (s *Store) path(owner string) string {
	return filepath.Join(s.dir, owner+".json")
}

// readTranscript loads an owner's transcript from disk. A missing file is
// not an error; it yields a fresh empty transcript for the given nickname.
func (s *Store) readTranscript(owner, nickname string) (*models.Transcript, error) {
	data, err := os.ReadFile(s.path(owner))
	if os.IsNotExist(err) {
		return &models.Transcript{Nickname: nickname, Messages: []models.Message{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript for %q: %w", owner, err)
	}

	var t models.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transcript for %q: %w", owner, err)
	}
	if t.Messages == nil {
		t.Messages = []models.Message{}
	}
	return &t, nil
}

// writeTranscript writes the transcript to a temp file in the same
// directory and renames it into place.
func (s *Store) writeTranscript(owner string, t *models.Transcript) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript for %q: %w", owner, err)
	}

	tmp, err := os.CreateTemp(s.dir, owner+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %q: %w", owner, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write transcript for %q: %w", owner, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %q: %w", owner, err)
	}
	if err := os.Rename(tmpName, s.path(owner)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace transcript for %q: %w", owner, err)
	}
	return nil
}

// Load implements store.TranscriptStore. Read and parse failures are
// logged and reported as empty history so a broken file never blocks the
// conversation.
func (s *Store) Load(_ context.Context, nickname string) []models.Message {
	owner := store.SanitizeNickname(nickname)
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	t, err := s.readTranscript(owner, nickname)
	if err != nil {
		log.Printf("Error loading chat history for %q: %v", owner, err)
		return []models.Message{}
	}
	return t.Messages
}

// Append implements store.TranscriptStore. The transcript is created
// lazily on the first message from a nickname.
func (s *Store) Append(_ context.Context, nickname, role, content string) error {
	owner := store.SanitizeNickname(nickname)
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	t, err := s.readTranscript(owner, nickname)
	if err != nil {
		// A corrupt transcript should not make the owner's history
		// unwritable. Start over, same as loading treats it as empty.
		log.Printf("Error reading chat history for %q, starting fresh: %v", owner, err)
		t = &models.Transcript{Nickname: nickname, Messages: []models.Message{}}
	}

	now := time.Now().UnixMilli()
	t.Messages = append(t.Messages, models.Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	t.LastUpdated = now

	return s.writeTranscript(owner, t)
}

// Replace implements store.TranscriptStore.
func (s *Store) Replace(_ context.Context, nickname string, messages []models.ChatMessage) error {
	owner := store.SanitizeNickname(nickname)
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UnixMilli()
	t := &models.Transcript{
		Nickname:    nickname,
		Messages:    make([]models.Message, 0, len(messages)),
		LastUpdated: now,
	}
	for _, m := range messages {
		t.Messages = append(t.Messages, models.Message{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: now,
		})
	}

	return s.writeTranscript(owner, t)
}

// Clear implements store.TranscriptStore. The owner's file stays in place
// with an empty message list; clearing a nickname that was never stored is
// a no-op.
func (s *Store) Clear(_ context.Context, nickname string) error {
	owner := store.SanitizeNickname(nickname)
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(s.path(owner)); os.IsNotExist(err) {
		return nil
	}

	t := &models.Transcript{
		Nickname:    nickname,
		Messages:    []models.Message{},
		LastUpdated: time.Now().UnixMilli(),
	}
	return s.writeTranscript(owner, t)
}
