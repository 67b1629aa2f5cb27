package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"autocare/internal/models"
)

// Scheduler owns slot allocation and the appointment lifecycle for all
// workshops. Create and Reschedule are serialized per workshop so overlap
// checks always observe a consistent snapshot; operations on different
// workshops do not block each other.
type Scheduler struct {
	store     AppointmentStore
	vehicles  VehicleDirectory
	mechanics MechanicDirectory
	locks     *keyedMutex
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler builds the scheduler.
func NewScheduler(store AppointmentStore, vehicles VehicleDirectory, mechanics MechanicDirectory, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		vehicles:  vehicles,
		mechanics: mechanics,
		locks:     newKeyedMutex(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateInput carries a booking request.
type CreateInput struct {
	WorkshopID  int64
	VehicleID   int64
	DriverID    int64
	Slot        models.ServiceSlot
	ServiceType string
	CustomDesc  string
}

// Create books a pending appointment after validating driver, vehicle and
// slot availability. Nothing is persisted when any precondition fails.
func (s *Scheduler) Create(ctx context.Context, in CreateInput) (*models.Appointment, []models.Event, error) {
	serviceType, err := models.ResolveServiceType(in.ServiceType)
	if err != nil {
		return nil, nil, err
	}

	appointment, err := models.NewAppointment(in.WorkshopID, in.VehicleID, in.DriverID, in.Slot, serviceType, in.CustomDesc)
	if err != nil {
		return nil, nil, err
	}

	exists, err := s.vehicles.DriverExists(ctx, in.DriverID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, models.NotFoundf("driver %d", in.DriverID)
	}

	exists, err = s.vehicles.VehicleExists(ctx, in.VehicleID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, models.NotFoundf("vehicle %d", in.VehicleID)
	}

	owns, err := s.vehicles.DriverOwnsVehicle(ctx, in.VehicleID, in.DriverID)
	if err != nil {
		return nil, nil, err
	}
	if !owns {
		return nil, nil, &models.ValidationError{Field: "vehicle_id", Reason: fmt.Sprintf("vehicle %d is not owned by driver %d", in.VehicleID, in.DriverID)}
	}

	unlock := s.locks.lock(in.WorkshopID)
	defer unlock()

	if err := s.checkOverlap(ctx, in.WorkshopID, in.Slot, 0); err != nil {
		return nil, nil, err
	}

	if err := s.store.Insert(ctx, appointment); err != nil {
		return nil, nil, err
	}

	s.logger.Info("appointment created",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("workshop_id", in.WorkshopID),
		zap.Int64("vehicle_id", in.VehicleID),
	)

	events := []models.Event{models.AppointmentCreated{
		AppointmentID: appointment.ID,
		WorkshopID:    in.WorkshopID,
		VehicleID:     in.VehicleID,
		DriverID:      in.DriverID,
		Slot:          in.Slot,
	}}
	return appointment, events, nil
}

// Reschedule moves an existing appointment to a new slot. The overlap check
// skips the appointment itself but covers every other non-cancelled booking
// in its workshop.
func (s *Scheduler) Reschedule(ctx context.Context, appointmentID int64, slot models.ServiceSlot) (*models.Appointment, []models.Event, error) {
	stale, err := s.store.Get(ctx, appointmentID)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.lock(stale.WorkshopID)
	defer unlock()

	// Re-read under the workshop lock so the slot and status are current.
	appointment, err := s.store.Get(ctx, appointmentID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.checkOverlap(ctx, appointment.WorkshopID, slot, appointmentID); err != nil {
		return nil, nil, err
	}

	oldSlot, err := appointment.Reschedule(slot)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Update(ctx, appointment); err != nil {
		return nil, nil, err
	}

	s.logger.Info("appointment rescheduled",
		zap.Int64("appointment_id", appointmentID),
		zap.Time("new_start", slot.StartAt),
	)

	events := []models.Event{models.AppointmentRescheduled{
		AppointmentID: appointmentID,
		OldSlot:       oldSlot,
		NewSlot:       slot,
	}}
	return appointment, events, nil
}

// UpdateStatus drives the appointment state machine toward target. The bool
// result reports whether a transition occurred; requesting the current status
// or pending is a successful no-op.
func (s *Scheduler) UpdateStatus(ctx context.Context, appointmentID int64, target models.AppointmentStatus) (bool, []models.Event, error) {
	appointment, err := s.store.Get(ctx, appointmentID)
	if err != nil {
		return false, nil, err
	}

	from := appointment.Status
	changed, err := applyTransition(ctx, appointment, target)
	if err != nil {
		return false, nil, err
	}
	if !changed {
		return false, nil, nil
	}

	if err := s.store.Update(ctx, appointment); err != nil {
		return false, nil, err
	}

	s.logger.Info("appointment status changed",
		zap.Int64("appointment_id", appointmentID),
		zap.String("from", string(from)),
		zap.String("to", string(appointment.Status)),
	)

	events := []models.Event{models.AppointmentStatusChanged{
		AppointmentID: appointmentID,
		From:          from,
		To:            appointment.Status,
	}}
	if appointment.Status == models.StatusCancelled {
		events = append(events, models.AppointmentCanceled{
			AppointmentID: appointmentID,
			CanceledAt:    s.now().UTC(),
		})
	}
	return true, events, nil
}

// AddNote appends an authored note to the appointment.
func (s *Scheduler) AddNote(ctx context.Context, appointmentID int64, content string, authorID int64) (*models.Appointment, error) {
	appointment, err := s.store.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := appointment.AddNote(content, authorID, s.now()); err != nil {
		return nil, err
	}

	note := appointment.Notes[len(appointment.Notes)-1]
	if err := s.store.AppendNote(ctx, appointmentID, note); err != nil {
		return nil, err
	}
	return appointment, nil
}

// AssignMechanic binds a mechanic to the appointment after checking that the
// mechanic exists and belongs to the appointment's workshop.
func (s *Scheduler) AssignMechanic(ctx context.Context, appointmentID, mechanicID int64) (*models.Appointment, []models.Event, error) {
	appointment, err := s.store.Get(ctx, appointmentID)
	if err != nil {
		return nil, nil, err
	}

	mechanic, err := s.mechanics.FindMechanic(ctx, mechanicID)
	if err != nil {
		return nil, nil, err
	}
	if mechanic.WorkshopID == nil {
		return nil, nil, &models.ValidationError{Field: "mechanic_id", Reason: fmt.Sprintf("mechanic %d has no workshop assigned", mechanicID)}
	}
	if *mechanic.WorkshopID != appointment.WorkshopID {
		return nil, nil, &models.ValidationError{Field: "mechanic_id", Reason: fmt.Sprintf("mechanic %d belongs to workshop %d, not %d", mechanicID, *mechanic.WorkshopID, appointment.WorkshopID)}
	}

	if err := appointment.AssignMechanic(mechanicID); err != nil {
		return nil, nil, err
	}
	if err := s.store.Update(ctx, appointment); err != nil {
		return nil, nil, err
	}

	events := []models.Event{models.MechanicAssigned{
		AppointmentID: appointmentID,
		MechanicID:    mechanicID,
	}}
	return appointment, events, nil
}

// UnassignMechanic clears the appointment's mechanic binding.
func (s *Scheduler) UnassignMechanic(ctx context.Context, appointmentID int64) (*models.Appointment, []models.Event, error) {
	appointment, err := s.store.Get(ctx, appointmentID)
	if err != nil {
		return nil, nil, err
	}

	prev, err := appointment.UnassignMechanic()
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.Update(ctx, appointment); err != nil {
		return nil, nil, err
	}

	events := []models.Event{models.MechanicUnassigned{
		AppointmentID:      appointmentID,
		PreviousMechanicID: prev,
	}}
	return appointment, events, nil
}

// ListWorkshopAppointments returns the non-cancelled bookings of a workshop.
func (s *Scheduler) ListWorkshopAppointments(ctx context.Context, workshopID int64) ([]models.Appointment, error) {
	return s.store.ListActiveByWorkshop(ctx, workshopID)
}

func (s *Scheduler) checkOverlap(ctx context.Context, workshopID int64, slot models.ServiceSlot, excludeID int64) error {
	booked, err := s.store.ListActiveByWorkshop(ctx, workshopID)
	if err != nil {
		return err
	}
	for _, existing := range booked {
		if existing.ID == excludeID {
			continue
		}
		if existing.Slot.Overlaps(slot) {
			return fmt.Errorf("workshop %d already booked %s to %s: %w",
				workshopID,
				existing.Slot.StartAt.Format(time.RFC3339),
				existing.Slot.EndAt.Format(time.RFC3339),
				models.ErrSlotConflict,
			)
		}
	}
	return nil
}
