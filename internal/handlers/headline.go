package handlers

import (
	"context"
	"net/http"

	"timension-backend/internal/models"
)

type headlineGenerator interface {
	DailyHeadline(ctx context.Context) (*models.DailyHeadline, bool)
}

type HeadlineHandler struct {
	generator headlineGenerator
}

func NewHeadlineHandler(generator headlineGenerator) *HeadlineHandler {
	return &HeadlineHandler{generator: generator}
}

func (h *HeadlineHandler) Get(w http.ResponseWriter, r *http.Request) {
	headline, ok := h.generator.DailyHeadline(r.Context())
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("GENERATION_FAILED", "Today's Gazette could not be printed", r))
		return
	}

	writeJSON(w, http.StatusOK, headline)
}
