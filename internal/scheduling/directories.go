package scheduling

import (
	"context"

	"autocare/internal/models"
)

// VehicleDirectory resolves vehicle and driver identity and ownership. Lookup
// failures surface as models.ErrCollaboratorUnavailable.
type VehicleDirectory interface {
	VehicleExists(ctx context.Context, vehicleID int64) (bool, error)
	DriverExists(ctx context.Context, driverID int64) (bool, error)
	DriverOwnsVehicle(ctx context.Context, vehicleID, driverID int64) (bool, error)
}

// MechanicDirectory resolves mechanics.
type MechanicDirectory interface {
	FindMechanic(ctx context.Context, mechanicID int64) (*models.Mechanic, error)
}

// WorkshopDirectory resolves workshops and applies mechanic moves. MoveMechanic
// rebinds the mechanic and adjusts both workshop counters atomically; a failed
// move must leave the binding and both counters untouched.
type WorkshopDirectory interface {
	FindWorkshop(ctx context.Context, workshopID int64) (*models.Workshop, error)
	MoveMechanic(ctx context.Context, mechanicID int64, from *int64, to int64) error
}

// AppointmentStore persists appointment aggregates. ListActiveByWorkshop must
// return every non-cancelled appointment for the workshop so overlap checks
// see a complete snapshot; the scheduler's per-workshop lock keeps the
// snapshot consistent across concurrent calls.
type AppointmentStore interface {
	Insert(ctx context.Context, appointment *models.Appointment) error
	Get(ctx context.Context, appointmentID int64) (*models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
	AppendNote(ctx context.Context, appointmentID int64, note models.Note) error
	ListActiveByWorkshop(ctx context.Context, workshopID int64) ([]models.Appointment, error)
}
