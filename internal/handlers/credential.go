package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"timension-backend/internal/services"
)

type credentialService interface {
	Credentials() *services.CredentialStore
	TestConnectivity(ctx context.Context) bool
}

type CredentialHandler struct {
	gemini credentialService
}

func NewCredentialHandler(gemini credentialService) *CredentialHandler {
	return &CredentialHandler{gemini: gemini}
}

// Status implements the host-integration hook: the frontend shows its own
// key-entry affordance only when no key is configured.
func (h *CredentialHandler) Status(w http.ResponseWriter, r *http.Request) {
	creds := h.gemini.Credentials()
	_, configured := creds.Resolve()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"configured": configured,
		"source":     creds.Source(),
	})
}

func (h *CredentialHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "API key is required", r))
		return
	}

	h.gemini.Credentials().Set(key)

	writeJSON(w, http.StatusOK, map[string]string{"source": h.gemini.Credentials().Source()})
}

// Test is the one place a connectivity failure is surfaced directly
// instead of degrading to a fallback value.
func (h *CredentialHandler) Test(w http.ResponseWriter, r *http.Request) {
	if !h.gemini.TestConnectivity(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("CONNECTIVITY_FAILED", "The generative service rejected the connection", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"connected": true})
}
