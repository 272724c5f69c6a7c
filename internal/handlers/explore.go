package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"timension-backend/internal/models"
)

type exploreGenerator interface {
	VintageMap(ctx context.Context, location string) (*models.MapImage, bool)
	LocationTrivia(ctx context.Context, location string) models.TriviaResult
	HistoricalPhotos(ctx context.Context, location string) models.PhotoSet
}

type ExploreHandler struct {
	generator exploreGenerator
}

func NewExploreHandler(generator exploreGenerator) *ExploreHandler {
	return &ExploreHandler{generator: generator}
}

func (h *ExploreHandler) Map(w http.ResponseWriter, r *http.Request) {
	location, ok := locationParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Location is required", r))
		return
	}

	mapImage, ok := h.generator.VintageMap(r.Context(), location)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("GENERATION_FAILED", "The cartographers are unavailable", r))
		return
	}

	writeJSON(w, http.StatusOK, mapImage)
}

func (h *ExploreHandler) Trivia(w http.ResponseWriter, r *http.Request) {
	location, ok := locationParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Location is required", r))
		return
	}

	writeJSON(w, http.StatusOK, h.generator.LocationTrivia(r.Context(), location))
}

func (h *ExploreHandler) Photos(w http.ResponseWriter, r *http.Request) {
	location, ok := locationParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Location is required", r))
		return
	}

	writeJSON(w, http.StatusOK, h.generator.HistoricalPhotos(r.Context(), location))
}

func locationParam(r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "location")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
