package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"timension-backend/internal/models"
)

const maxSuggestionLen = 500

type feedbackService interface {
	ListSuggestions(ctx context.Context) []models.Suggestion
	SubmitSuggestion(ctx context.Context, content string) bool
}

type SuggestionHandler struct {
	feedback feedbackService
}

func NewSuggestionHandler(feedback feedbackService) *SuggestionHandler {
	return &SuggestionHandler{feedback: feedback}
}

func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": h.feedback.ListSuggestions(r.Context()),
	})
}

func (h *SuggestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Content is required", r))
		return
	}
	if len(content) > maxSuggestionLen {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Content is too long", r))
		return
	}

	if !h.feedback.SubmitSuggestion(r.Context(), content) {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("STORE_UNAVAILABLE", "The suggestion wall is not accepting entries right now", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Suggestion received"})
}
