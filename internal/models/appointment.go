package models

import (
	"fmt"
	"strings"
	"time"
)

// ServiceType enumerates the catalog of bookable services.
type ServiceType string

const (
	ServiceGeneralMaintenance ServiceType = "general_maintenance"
	ServiceOilChange          ServiceType = "oil_change"
	ServiceTireRotation       ServiceType = "tire_rotation"
	ServiceBrakeService       ServiceType = "brake_service"
	ServiceInspection         ServiceType = "inspection"
	ServiceDiagnostics        ServiceType = "diagnostics"
	ServiceCustom             ServiceType = "custom"
)

var serviceTypes = map[ServiceType]bool{
	ServiceGeneralMaintenance: true,
	ServiceOilChange:          true,
	ServiceTireRotation:       true,
	ServiceBrakeService:       true,
	ServiceInspection:         true,
	ServiceDiagnostics:        true,
	ServiceCustom:             true,
}

// ResolveServiceType maps a request value onto the catalog. An empty value
// falls back to general maintenance; an unknown one is a validation error.
func ResolveServiceType(raw string) (ServiceType, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ServiceGeneralMaintenance, nil
	}
	st := ServiceType(raw)
	if !serviceTypes[st] {
		return "", invalid("service_type", "unknown service type "+raw)
	}
	return st, nil
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

var appointmentStatuses = map[AppointmentStatus]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// ParseAppointmentStatus validates a request-supplied status value.
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	st := AppointmentStatus(strings.TrimSpace(strings.ToLower(raw)))
	if !appointmentStatuses[st] {
		return "", invalid("status", "unknown status "+raw)
	}
	return st, nil
}

// Terminal reports whether no further transition is permitted.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Note is an authored remark on an appointment. Notes belong exclusively to
// their appointment.
type Note struct {
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Audit carries creation and mutation stamps shared by persisted aggregates.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Appointment is the scheduling aggregate root. All mutation goes through the
// explicit methods below; the scheduler holds the only writable handle.
type Appointment struct {
	ID          int64             `json:"id"`
	WorkshopID  int64             `json:"workshop_id"`
	VehicleID   int64             `json:"vehicle_id"`
	DriverID    int64             `json:"driver_id"`
	ServiceType ServiceType       `json:"service_type"`
	CustomDesc  string            `json:"custom_service_description,omitempty"`
	MechanicID  *int64            `json:"mechanic_id,omitempty"`
	Status      AppointmentStatus `json:"status"`
	Slot        ServiceSlot       `json:"scheduled_at"`
	Notes       []Note            `json:"notes,omitempty"`
	Audit       Audit             `json:"audit"`
}

// NewAppointment builds a pending appointment. Identity and audit stamps are
// filled in by the store on insert.
func NewAppointment(workshopID, vehicleID, driverID int64, slot ServiceSlot, serviceType ServiceType, customDesc string) (*Appointment, error) {
	if workshopID <= 0 {
		return nil, invalid("workshop_id", "must be a positive identifier")
	}
	if vehicleID <= 0 {
		return nil, invalid("vehicle_id", "must be a positive identifier")
	}
	if driverID <= 0 {
		return nil, invalid("driver_id", "must be a positive identifier")
	}
	if serviceType == "" {
		serviceType = ServiceGeneralMaintenance
	}
	if serviceType != ServiceCustom {
		customDesc = ""
	} else if strings.TrimSpace(customDesc) == "" {
		return nil, invalid("custom_service_description", "required for custom service")
	}
	return &Appointment{
		WorkshopID:  workshopID,
		VehicleID:   vehicleID,
		DriverID:    driverID,
		ServiceType: serviceType,
		CustomDesc:  customDesc,
		Status:      StatusPending,
		Slot:        slot,
	}, nil
}

// Reschedule moves the appointment to a new slot. Terminal appointments are
// immutable with respect to time.
func (a *Appointment) Reschedule(slot ServiceSlot) (ServiceSlot, error) {
	if a.Status.Terminal() {
		return ServiceSlot{}, fmt.Errorf("reschedule a %s appointment: %w", a.Status, ErrInvalidTransition)
	}
	old := a.Slot
	a.Slot = slot
	return old, nil
}

// AddNote appends an authored note.
func (a *Appointment) AddNote(content string, authorID int64, at time.Time) error {
	if strings.TrimSpace(content) == "" {
		return invalid("content", "note content is required")
	}
	if authorID <= 0 {
		return invalid("author_id", "must be a positive identifier")
	}
	a.Notes = append(a.Notes, Note{Content: content, AuthorID: authorID, CreatedAt: at.UTC()})
	return nil
}

// AssignMechanic binds a mechanic to the appointment. Workshop membership is
// checked by the scheduler against the mechanic directory.
func (a *Appointment) AssignMechanic(mechanicID int64) error {
	if a.Status.Terminal() {
		return fmt.Errorf("assign mechanic to a %s appointment: %w", a.Status, ErrInvalidTransition)
	}
	a.MechanicID = &mechanicID
	return nil
}

// UnassignMechanic clears the mechanic binding and returns the previous
// assignment. Completed appointments keep their mechanic for the record.
func (a *Appointment) UnassignMechanic() (int64, error) {
	if a.MechanicID == nil {
		return 0, invalid("mechanic_id", "no mechanic assigned")
	}
	if a.Status == StatusCompleted {
		return 0, fmt.Errorf("unassign mechanic from a completed appointment: %w", ErrInvalidTransition)
	}
	prev := *a.MechanicID
	a.MechanicID = nil
	return prev, nil
}
