package models

import "time"

// Event is a domain fact emitted by an operation. Operations return the
// events they produced instead of publishing them; the caller dispatches to
// the notification sink. Delivery is fire-and-forget, at-least-once.
type Event interface {
	EventName() string
}

type AppointmentCreated struct {
	AppointmentID int64       `json:"appointment_id"`
	WorkshopID    int64       `json:"workshop_id"`
	VehicleID     int64       `json:"vehicle_id"`
	DriverID      int64       `json:"driver_id"`
	Slot          ServiceSlot `json:"slot"`
}

func (AppointmentCreated) EventName() string { return "appointment.created" }

type AppointmentRescheduled struct {
	AppointmentID int64       `json:"appointment_id"`
	OldSlot       ServiceSlot `json:"old_slot"`
	NewSlot       ServiceSlot `json:"new_slot"`
}

func (AppointmentRescheduled) EventName() string { return "appointment.rescheduled" }

type AppointmentCanceled struct {
	AppointmentID int64     `json:"appointment_id"`
	CanceledAt    time.Time `json:"canceled_at"`
}

func (AppointmentCanceled) EventName() string { return "appointment.canceled" }

type AppointmentStatusChanged struct {
	AppointmentID int64             `json:"appointment_id"`
	From          AppointmentStatus `json:"from"`
	To            AppointmentStatus `json:"to"`
}

func (AppointmentStatusChanged) EventName() string { return "appointment.status_changed" }

type MechanicAssigned struct {
	AppointmentID int64 `json:"appointment_id"`
	MechanicID    int64 `json:"mechanic_id"`
}

func (MechanicAssigned) EventName() string { return "mechanic.assigned" }

type MechanicUnassigned struct {
	AppointmentID      int64 `json:"appointment_id"`
	PreviousMechanicID int64 `json:"previous_mechanic_id"`
}

func (MechanicUnassigned) EventName() string { return "mechanic.unassigned" }

type SampleIngested struct {
	RecordID   string    `json:"record_id"`
	Sample     Sample    `json:"sample"`
	IngestedAt time.Time `json:"ingested_at"`
}

func (SampleIngested) EventName() string { return "telemetry.sample_ingested" }

type Flushed struct {
	AggregateID string    `json:"aggregate_id"`
	VehicleID   int64     `json:"vehicle_id"`
	Count       int       `json:"count"`
	FlushedAt   time.Time `json:"flushed_at"`
}

func (Flushed) EventName() string { return "telemetry.flushed" }

type AlertRaised struct {
	RecordID  string `json:"record_id"`
	VehicleID int64  `json:"vehicle_id"`
	DriverID  int64  `json:"driver_id"`
	Kind      string `json:"kind"`
}

func (AlertRaised) EventName() string { return "telemetry.alert_raised" }
