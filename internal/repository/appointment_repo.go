package repository

import (
	"context"
	"database/sql"
	"errors"

	"autocare/internal/models"
)

// AppointmentRepository persists appointment aggregates and their notes.
type AppointmentRepository struct {
	db *sql.DB
}

// NewAppointmentRepository returns repository.
func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Insert stores a new appointment and fills in identity and audit stamps.
func (r *AppointmentRepository) Insert(ctx context.Context, appointment *models.Appointment) error {
	const query = `
		INSERT INTO appointments (workshop_id, vehicle_id, driver_id, service_type, custom_description, mechanic_id, status, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		appointment.WorkshopID,
		appointment.VehicleID,
		appointment.DriverID,
		appointment.ServiceType,
		appointment.CustomDesc,
		appointment.MechanicID,
		appointment.Status,
		appointment.Slot.StartAt,
		appointment.Slot.EndAt,
	).Scan(&appointment.ID, &appointment.Audit.CreatedAt, &appointment.Audit.UpdatedAt)
}

// Get loads an appointment with its notes.
func (r *AppointmentRepository) Get(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	const query = `
		SELECT id, workshop_id, vehicle_id, driver_id, service_type, custom_description, mechanic_id, status, starts_at, ends_at, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment models.Appointment
	err := r.db.QueryRowContext(ctx, query, appointmentID).Scan(
		&appointment.ID,
		&appointment.WorkshopID,
		&appointment.VehicleID,
		&appointment.DriverID,
		&appointment.ServiceType,
		&appointment.CustomDesc,
		&appointment.MechanicID,
		&appointment.Status,
		&appointment.Slot.StartAt,
		&appointment.Slot.EndAt,
		&appointment.Audit.CreatedAt,
		&appointment.Audit.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundf("appointment %d", appointmentID)
	}
	if err != nil {
		return nil, err
	}

	notes, err := r.listNotes(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	appointment.Notes = notes
	return &appointment, nil
}

// Update rewrites the mutable fields of an appointment.
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	const query = `
		UPDATE appointments
		SET status = $2,
		    starts_at = $3,
		    ends_at = $4,
		    mechanic_id = $5,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.Status,
		appointment.Slot.StartAt,
		appointment.Slot.EndAt,
		appointment.MechanicID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFoundf("appointment %d", appointment.ID)
	}
	return nil
}

// AppendNote stores one note for the appointment.
func (r *AppointmentRepository) AppendNote(ctx context.Context, appointmentID int64, note models.Note) error {
	const query = `
		INSERT INTO appointment_notes (appointment_id, content, author_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, appointmentID, note.Content, note.AuthorID, note.CreatedAt)
	return err
}

// ListActiveByWorkshop returns every non-cancelled appointment of the
// workshop ordered by start time.
func (r *AppointmentRepository) ListActiveByWorkshop(ctx context.Context, workshopID int64) ([]models.Appointment, error) {
	const query = `
		SELECT id, workshop_id, vehicle_id, driver_id, service_type, custom_description, mechanic_id, status, starts_at, ends_at, created_at, updated_at
		FROM appointments
		WHERE workshop_id = $1 AND status <> $2
		ORDER BY starts_at
	`
	rows, err := r.db.QueryContext(ctx, query, workshopID, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []models.Appointment
	for rows.Next() {
		var appointment models.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.WorkshopID,
			&appointment.VehicleID,
			&appointment.DriverID,
			&appointment.ServiceType,
			&appointment.CustomDesc,
			&appointment.MechanicID,
			&appointment.Status,
			&appointment.Slot.StartAt,
			&appointment.Slot.EndAt,
			&appointment.Audit.CreatedAt,
			&appointment.Audit.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}

func (r *AppointmentRepository) listNotes(ctx context.Context, appointmentID int64) ([]models.Note, error) {
	const query = `
		SELECT content, author_id, created_at
		FROM appointment_notes
		WHERE appointment_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.Content, &note.AuthorID, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
