package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHome(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HandleHome(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Roman history")
}

func TestHandleChatPageReadsNicknameCookie(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	req.AddCookie(&http.Cookie{Name: NicknameCookie, Value: "lucius"})
	rec := httptest.NewRecorder()
	h.HandleChatPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-nickname="lucius"`)
}

func TestHandleChatPageWithoutCookie(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	h.HandleChatPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-nickname=""`)
}

func TestStaticServesChatScript(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/static/chat.js", nil)
	rec := httptest.NewRecorder()
	h.Static().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "save-message")
}
