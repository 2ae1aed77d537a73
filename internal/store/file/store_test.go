package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romanchat-backend/internal/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)
	return s, dir
}

func TestAppendThenLoad(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "bob", models.RoleUser, "Tell me about Julius Caesar"))
	require.NoError(t, s.Append(ctx, "bob", models.RoleAssistant, "Caesar crossed the Rubicon in 49 BC."))

	messages := s.Load(ctx, "bob")
	require.Len(t, messages, 2)

	last := messages[len(messages)-1]
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, "Caesar crossed the Rubicon in 49 BC.", last.Content)
	assert.Greater(t, last.Timestamp, int64(0))
}

func TestLoadMissingNickname(t *testing.T) {
	s, _ := newTestStore(t)

	messages := s.Load(context.Background(), "nobody")
	require.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestClearThenLoad(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "bob", models.RoleUser, "hello"))
	require.NoError(t, s.Clear(ctx, "bob"))

	assert.Empty(t, s.Load(ctx, "bob"))

	// The owner's file stays in place with an empty message list.
	_, err := os.Stat(filepath.Join(dir, "bob.json"))
	assert.NoError(t, err)
}

func TestClearMissingNicknameIsNoop(t *testing.T) {
	s, dir := newTestStore(t)

	require.NoError(t, s.Clear(context.Background(), "nobody"))

	_, err := os.Stat(filepath.Join(dir, "nobody.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCollidingNicknamesShareTranscript(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "bob!", models.RoleUser, "first"))
	require.NoError(t, s.Append(ctx, "bob?", models.RoleUser, "second"))

	messages := s.Load(ctx, "bob!")
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bob_.json", entries[0].Name())
}

func TestLoadCorruptFileTreatedAsEmpty(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.json"), []byte("{not json"), 0o644))

	assert.Empty(t, s.Load(ctx, "bob"))

	// A corrupt transcript does not block new writes.
	require.NoError(t, s.Append(ctx, "bob", models.RoleUser, "fresh start"))
	messages := s.Load(ctx, "bob")
	require.Len(t, messages, 1)
	assert.Equal(t, "fresh start", messages[0].Content)
}

func TestReplace(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "bob", models.RoleUser, "old"))
	require.NoError(t, s.Replace(ctx, "bob", []models.ChatMessage{
		{Role: models.RoleUser, Content: "new question"},
		{Role: models.RoleAssistant, Content: "new answer"},
	}))

	messages := s.Load(ctx, "bob")
	require.Len(t, messages, 2)
	assert.Equal(t, "new question", messages[0].Content)
	assert.Equal(t, "new answer", messages[1].Content)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, "bob", models.RoleUser, "message"))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bob.json", entries[0].Name())
}
