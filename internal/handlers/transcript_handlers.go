package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"romanchat-backend/internal/models"
	"romanchat-backend/internal/services"
	"romanchat-backend/pkg/httputil"
)

// TranscriptHandlers handles HTTP requests for transcript persistence.
type TranscriptHandlers struct {
	transcriptService *services.TranscriptService
}

// NewTranscriptHandlers creates a new TranscriptHandlers instance.
func NewTranscriptHandlers(transcriptService *services.TranscriptService) *TranscriptHandlers {
	return &TranscriptHandlers{
		transcriptService: transcriptService,
	}
}

// HandleSaveMessage persists one conversation turn for a nickname.
func (h *TranscriptHandlers) HandleSaveMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SaveMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Nickname == "" || req.Role == "" || req.Content == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if err := h.transcriptService.SaveMessage(r.Context(), req.Nickname, req.Role, req.Content); err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		log.Printf("Error saving message: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// HandleClearMessages empties the stored transcript for a nickname.
func (h *TranscriptHandlers) HandleClearMessages(w http.ResponseWriter, r *http.Request) {
	var req models.ClearMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Nickname == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing nickname")
		return
	}

	if err := h.transcriptService.ClearHistory(r.Context(), req.Nickname); err != nil {
		log.Printf("Error clearing messages: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to clear messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// HandleGetHistory returns the persisted transcript for a nickname so a
// client can seed its conversation at page load. Storage trouble reads as
// empty history, so this endpoint only fails on a missing nickname.
func (h *TranscriptHandlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing nickname")
		return
	}

	messages := h.transcriptService.GetHistory(r.Context(), nickname)
	if messages == nil {
		messages = []models.Message{}
	}

	httputil.RespondJSON(w, http.StatusOK, models.HistoryResponse{
		Nickname: nickname,
		Messages: messages,
	})
}
