package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"timension-backend/internal/models"
)

type mentorGenerator interface {
	MentorReply(ctx context.Context, persona, era string, history []models.ChatMessage, message string) models.MentorReply
}

type MentorHandler struct {
	generator mentorGenerator
}

func NewMentorHandler(generator mentorGenerator) *MentorHandler {
	return &MentorHandler{generator: generator}
}

func (h *MentorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Persona) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Persona is required", r))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	reply := h.generator.MentorReply(r.Context(), req.Persona, req.Era, req.History, req.Message)
	writeJSON(w, http.StatusOK, reply)
}
