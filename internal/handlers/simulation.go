package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"timension-backend/internal/models"
	"timension-backend/internal/services"
)

type simulationGenerator interface {
	Simulate(ctx context.Context, req models.SimulationRequest) models.SimulationResult
}

type SimulationHandler struct {
	generator simulationGenerator
}

func NewSimulationHandler(generator simulationGenerator) *SimulationHandler {
	return &SimulationHandler{generator: generator}
}

// Events serves the fixed pivot-point catalog the frontend seeds the
// simulation form with.
func (h *SimulationHandler) Events(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": services.PivotEvents()})
}

func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Event) == "" || strings.TrimSpace(req.Change) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Event and change are required", r))
		return
	}

	// The generator degrades internally; this endpoint always answers 200.
	writeJSON(w, http.StatusOK, h.generator.Simulate(r.Context(), req))
}
