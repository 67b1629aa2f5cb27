package repository

import (
	"context"
	"database/sql"
	"errors"

	"autocare/internal/models"
)

// VehicleRepository answers vehicle and driver existence and ownership
// questions. Driver errors surface as ErrCollaboratorUnavailable so callers
// can distinguish a broken directory from a negative answer.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// VehicleExists reports whether the vehicle is known.
func (r *VehicleRepository) VehicleExists(ctx context.Context, vehicleID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`, vehicleID)
}

// DriverExists reports whether the driver is known.
func (r *VehicleRepository) DriverExists(ctx context.Context, driverID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, driverID)
}

// DriverOwnsVehicle reports whether the vehicle belongs to the driver.
func (r *VehicleRepository) DriverOwnsVehicle(ctx context.Context, vehicleID, driverID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1 AND driver_id = $2)`
	var owns bool
	if err := r.db.QueryRowContext(ctx, query, vehicleID, driverID).Scan(&owns); err != nil {
		return false, models.CollaboratorErr("vehicle directory", err)
	}
	return owns, nil
}

func (r *VehicleRepository) exists(ctx context.Context, query string, id int64) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&found); err != nil {
		return false, models.CollaboratorErr("vehicle directory", err)
	}
	return found, nil
}

// MechanicRepository resolves mechanics. Workshop rebinding goes through
// WorkshopRepository.MoveMechanic so the counters travel in the same
// transaction.
type MechanicRepository struct {
	db *sql.DB
}

// NewMechanicRepository returns repository.
func NewMechanicRepository(db *sql.DB) *MechanicRepository {
	return &MechanicRepository{db: db}
}

// FindMechanic loads a mechanic by id.
func (r *MechanicRepository) FindMechanic(ctx context.Context, mechanicID int64) (*models.Mechanic, error) {
	const query = `SELECT id, name, workshop_id FROM mechanics WHERE id = $1`
	var mechanic models.Mechanic
	err := r.db.QueryRowContext(ctx, query, mechanicID).Scan(&mechanic.ID, &mechanic.Name, &mechanic.WorkshopID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("mechanic %d", mechanicID)
	}
	if err != nil {
		return nil, models.CollaboratorErr("mechanic directory", err)
	}
	return &mechanic, nil
}

// WorkshopRepository resolves workshops and applies mechanic moves.
type WorkshopRepository struct {
	db *sql.DB
}

// NewWorkshopRepository returns repository.
func NewWorkshopRepository(db *sql.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

// FindWorkshop loads a workshop by id.
func (r *WorkshopRepository) FindWorkshop(ctx context.Context, workshopID int64) (*models.Workshop, error) {
	const query = `SELECT id, name, mechanic_count FROM workshops WHERE id = $1`
	var workshop models.Workshop
	err := r.db.QueryRowContext(ctx, query, workshopID).Scan(&workshop.ID, &workshop.Name, &workshop.MechanicCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("workshop %d", workshopID)
	}
	if err != nil {
		return nil, models.CollaboratorErr("workshop directory", err)
	}
	return &workshop, nil
}

// MoveMechanic rebinds the mechanic and maintains both workshop counters in
// one transaction. A failed move commits nothing.
func (r *WorkshopRepository) MoveMechanic(ctx context.Context, mechanicID int64, from *int64, to int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.CollaboratorErr("workshop directory", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE mechanics SET workshop_id = $2, updated_at = NOW() WHERE id = $1`, mechanicID, to)
	if err != nil {
		return models.CollaboratorErr("mechanic directory", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.CollaboratorErr("mechanic directory", err)
	}
	if affected == 0 {
		return models.NotFoundf("mechanic %d", mechanicID)
	}

	if from != nil {
		const decrement = `UPDATE workshops SET mechanic_count = GREATEST(mechanic_count - 1, 0), updated_at = NOW() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, decrement, *from); err != nil {
			return models.CollaboratorErr("workshop directory", err)
		}
	}

	result, err = tx.ExecContext(ctx, `UPDATE workshops SET mechanic_count = mechanic_count + 1, updated_at = NOW() WHERE id = $1`, to)
	if err != nil {
		return models.CollaboratorErr("workshop directory", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return models.CollaboratorErr("workshop directory", err)
	}
	if affected == 0 {
		return models.NotFoundf("workshop %d", to)
	}

	if err := tx.Commit(); err != nil {
		return models.CollaboratorErr("workshop directory", err)
	}
	return nil
}
