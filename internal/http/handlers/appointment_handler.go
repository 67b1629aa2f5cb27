package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"autocare/internal/metrics"
	"autocare/internal/models"
	"autocare/internal/scheduling"
)

// AppointmentHandler holds the scheduling endpoints.
type AppointmentHandler struct {
	scheduler *scheduling.Scheduler
	dispatch  Dispatcher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAppointmentHandler builds handler set.
func NewAppointmentHandler(scheduler *scheduling.Scheduler, dispatch Dispatcher, m *metrics.Metrics, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		scheduler: scheduler,
		dispatch:  dispatch,
		metrics:   m,
		logger:    logger,
	}
}

type createAppointmentRequest struct {
	WorkshopID  int64     `json:"workshop_id"`
	VehicleID   int64     `json:"vehicle_id"`
	DriverID    int64     `json:"driver_id"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	ServiceType string    `json:"service_type"`
	CustomDesc  string    `json:"custom_service_description"`
}

// HandleCreate handles POST /appointments.
func (h *AppointmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	slot, err := models.NewServiceSlot(req.StartAt, req.EndAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	appointment, events, err := h.scheduler.Create(r.Context(), scheduling.CreateInput{
		WorkshopID:  req.WorkshopID,
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		Slot:        slot,
		ServiceType: req.ServiceType,
		CustomDesc:  req.CustomDesc,
	})
	if err != nil {
		if errors.Is(err, models.ErrSlotConflict) {
			h.metrics.SlotConflicts.Inc()
		}
		writeDomainError(w, err)
		return
	}

	h.metrics.AppointmentsCreated.Inc()
	h.dispatch.Dispatch(r.Context(), events)
	writeJSON(w, http.StatusCreated, appointment)
}

type rescheduleRequest struct {
	AppointmentID int64     `json:"appointment_id"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
}

// HandleReschedule handles POST /appointments/reschedule.
func (h *AppointmentHandler) HandleReschedule(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	slot, err := models.NewServiceSlot(req.StartAt, req.EndAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	appointment, events, err := h.scheduler.Reschedule(r.Context(), req.AppointmentID, slot)
	if err != nil {
		if errors.Is(err, models.ErrSlotConflict) {
			h.metrics.SlotConflicts.Inc()
		}
		writeDomainError(w, err)
		return
	}

	h.dispatch.Dispatch(r.Context(), events)
	writeJSON(w, http.StatusOK, appointment)
}

type statusRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`
}

// HandleStatus handles POST /appointments/status.
func (h *AppointmentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	target, err := models.ParseAppointmentStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	changed, events, err := h.scheduler.UpdateStatus(r.Context(), req.AppointmentID, target)
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			h.metrics.TransitionsRejected.Inc()
		}
		writeDomainError(w, err)
		return
	}

	h.dispatch.Dispatch(r.Context(), events)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"appointment_id": req.AppointmentID,
		"changed":        changed,
	})
}

type noteRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	Content       string `json:"content"`
	AuthorID      int64  `json:"author_id"`
}

// HandleAddNote handles POST /appointments/notes.
func (h *AppointmentHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	appointment, err := h.scheduler.AddNote(r.Context(), req.AppointmentID, req.Content, req.AuthorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

type assignMechanicRequest struct {
	AppointmentID int64 `json:"appointment_id"`
	MechanicID    int64 `json:"mechanic_id"`
}

// HandleAssignMechanic handles POST /appointments/mechanic.
func (h *AppointmentHandler) HandleAssignMechanic(w http.ResponseWriter, r *http.Request) {
	var req assignMechanicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	appointment, events, err := h.scheduler.AssignMechanic(r.Context(), req.AppointmentID, req.MechanicID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.dispatch.Dispatch(r.Context(), events)
	writeJSON(w, http.StatusOK, appointment)
}

type unassignMechanicRequest struct {
	AppointmentID int64 `json:"appointment_id"`
}

// HandleUnassignMechanic handles DELETE /appointments/mechanic.
func (h *AppointmentHandler) HandleUnassignMechanic(w http.ResponseWriter, r *http.Request) {
	var req unassignMechanicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	appointment, events, err := h.scheduler.UnassignMechanic(r.Context(), req.AppointmentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.dispatch.Dispatch(r.Context(), events)
	writeJSON(w, http.StatusOK, appointment)
}

// HandleWorkshopAppointments handles GET /appointments/workshop?workshop_id=.
func (h *AppointmentHandler) HandleWorkshopAppointments(w http.ResponseWriter, r *http.Request) {
	workshopID, err := strconv.ParseInt(r.URL.Query().Get("workshop_id"), 10, 64)
	if err != nil || workshopID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid workshop id")
		return
	}

	appointments, err := h.scheduler.ListWorkshopAppointments(r.Context(), workshopID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workshop_id":  workshopID,
		"appointments": appointments,
	})
}
