package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"romanchat-backend/internal/models"
	"romanchat-backend/internal/services"
	"romanchat-backend/pkg/httputil"
)

// ChatHandlers handles HTTP requests for the streamed completion relay.
type ChatHandlers struct {
	chatService *services.ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
	}
}

// HandleChat relays a streamed completion for the submitted conversation.
// The response body is plain text: token fragments are written and flushed
// as they arrive from the provider. Once the first fragment has been
// written there is no way to signal a mid-stream upstream failure other
// than ending the body early.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Messages) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "Messages cannot be empty")
		return
	}

	stream, err := h.chatService.StreamConversation(r.Context(), req.Messages)
	if err != nil {
		log.Printf("Error starting completion: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			log.Printf("Error reading completion stream: %v", err)
			return
		}

		if _, err := io.WriteString(w, chunk); err != nil {
			// Client went away; nothing left to relay to.
			log.Printf("Error writing chunk to client: %v", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
