package scheduling

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"autocare/internal/models"
)

// Transition events of the appointment lifecycle.
const (
	eventConfirm  = "confirm"
	eventStart    = "start"
	eventComplete = "complete"
	eventCancel   = "cancel"
)

// transitionEvents maps a requested target status to the event that reaches
// it. Pending has no entry: it is the initial state and can only be a no-op
// target.
var transitionEvents = map[models.AppointmentStatus]string{
	models.StatusConfirmed:  eventConfirm,
	models.StatusInProgress: eventStart,
	models.StatusCompleted:  eventComplete,
	models.StatusCancelled:  eventCancel,
}

func newStatusMachine(current models.AppointmentStatus) *fsm.FSM {
	return fsm.NewFSM(
		string(current),
		fsm.Events{
			{Name: eventConfirm, Src: []string{string(models.StatusPending)}, Dst: string(models.StatusConfirmed)},
			{Name: eventStart, Src: []string{string(models.StatusConfirmed)}, Dst: string(models.StatusInProgress)},
			{Name: eventComplete, Src: []string{string(models.StatusInProgress)}, Dst: string(models.StatusCompleted)},
			{Name: eventCancel, Src: []string{
				string(models.StatusPending),
				string(models.StatusConfirmed),
				string(models.StatusInProgress),
			}, Dst: string(models.StatusCancelled)},
		},
		fsm.Callbacks{},
	)
}

// applyTransition drives the status machine toward target. Requesting the
// current status, or pending, is a successful no-op returning false. Any
// transition outside the event table fails with ErrInvalidTransition and
// leaves the appointment untouched.
func applyTransition(ctx context.Context, appointment *models.Appointment, target models.AppointmentStatus) (bool, error) {
	if target == appointment.Status || target == models.StatusPending {
		return false, nil
	}

	event, ok := transitionEvents[target]
	if !ok {
		return false, fmt.Errorf("%s -> %s: %w", appointment.Status, target, models.ErrInvalidTransition)
	}

	machine := newStatusMachine(appointment.Status)
	if err := machine.Event(ctx, event); err != nil {
		return false, fmt.Errorf("%s -> %s: %w", appointment.Status, target, models.ErrInvalidTransition)
	}

	appointment.Status = models.AppointmentStatus(machine.Current())
	return true, nil
}
