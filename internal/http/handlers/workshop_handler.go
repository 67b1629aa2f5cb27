package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"autocare/internal/scheduling"
)

// WorkshopHandler holds workshop-level endpoints.
type WorkshopHandler struct {
	workshops *scheduling.WorkshopService
	logger    *zap.Logger
}

// NewWorkshopHandler builds handler.
func NewWorkshopHandler(workshops *scheduling.WorkshopService, logger *zap.Logger) *WorkshopHandler {
	return &WorkshopHandler{workshops: workshops, logger: logger}
}

type workshopMechanicRequest struct {
	MechanicID int64 `json:"mechanic_id"`
	WorkshopID int64 `json:"workshop_id"`
}

// HandleAssignMechanic handles POST /workshops/mechanics.
func (h *WorkshopHandler) HandleAssignMechanic(w http.ResponseWriter, r *http.Request) {
	var req workshopMechanicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.MechanicID <= 0 || req.WorkshopID <= 0 {
		writeError(w, http.StatusBadRequest, "mechanic_id and workshop_id are required")
		return
	}

	mechanic, err := h.workshops.AssignMechanicToWorkshop(r.Context(), req.MechanicID, req.WorkshopID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mechanic)
}
