package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"autocare/internal/models"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Appointment
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, items: make(map[int64]*models.Appointment)}
}

func (s *memStore) Insert(ctx context.Context, appointment *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	appointment.Audit = models.Audit{CreatedAt: now, UpdatedAt: now}
	clone := *appointment
	s.items[appointment.ID] = &clone
	return nil
}

func (s *memStore) Get(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[appointmentID]
	if !ok {
		return nil, models.NotFoundf("appointment %d", appointmentID)
	}
	clone := *stored
	clone.Notes = append([]models.Note(nil), stored.Notes...)
	return &clone, nil
}

func (s *memStore) Update(ctx context.Context, appointment *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[appointment.ID]
	if !ok {
		return models.NotFoundf("appointment %d", appointment.ID)
	}
	stored.Status = appointment.Status
	stored.Slot = appointment.Slot
	stored.MechanicID = appointment.MechanicID
	stored.Audit.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memStore) AppendNote(ctx context.Context, appointmentID int64, note models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[appointmentID]
	if !ok {
		return models.NotFoundf("appointment %d", appointmentID)
	}
	stored.Notes = append(stored.Notes, note)
	return nil
}

func (s *memStore) ListActiveByWorkshop(ctx context.Context, workshopID int64) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, stored := range s.items {
		if stored.WorkshopID == workshopID && stored.Status != models.StatusCancelled {
			out = append(out, *stored)
		}
	}
	return out, nil
}

type fakeVehicles struct {
	drivers  map[int64]bool
	vehicles map[int64]int64 // vehicle id -> owning driver
	err      error
}

func (f *fakeVehicles) VehicleExists(ctx context.Context, vehicleID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.vehicles[vehicleID]
	return ok, nil
}

func (f *fakeVehicles) DriverExists(ctx context.Context, driverID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.drivers[driverID], nil
}

func (f *fakeVehicles) DriverOwnsVehicle(ctx context.Context, vehicleID, driverID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	owner, ok := f.vehicles[vehicleID]
	return ok && owner == driverID, nil
}

type fakeMechanics struct {
	mu    sync.Mutex
	items map[int64]*models.Mechanic
}

func (f *fakeMechanics) FindMechanic(ctx context.Context, mechanicID int64) (*models.Mechanic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[mechanicID]
	if !ok {
		return nil, models.NotFoundf("mechanic %d", mechanicID)
	}
	clone := *stored
	if stored.WorkshopID != nil {
		ws := *stored.WorkshopID
		clone.WorkshopID = &ws
	}
	return &clone, nil
}

func workshopOf(id int64) *int64 { return &id }

func newTestScheduler(t *testing.T) (*Scheduler, *memStore) {
	t.Helper()
	store := newMemStore()
	vehicles := &fakeVehicles{
		drivers:  map[int64]bool{7: true},
		vehicles: map[int64]int64{12: 7},
	}
	mechanics := &fakeMechanics{items: map[int64]*models.Mechanic{
		40: {ID: 40, Name: "M. Okafor", WorkshopID: workshopOf(5)},
		41: {ID: 41, Name: "L. Byrne", WorkshopID: workshopOf(7)},
		42: {ID: 42, Name: "T. Haag"},
	}}
	return NewScheduler(store, vehicles, mechanics, zap.NewNop()), store
}

func slotAt(startMin, endMin int) models.ServiceSlot {
	base := time.Date(2027, 6, 1, 10, 0, 0, 0, time.UTC)
	return models.ServiceSlot{
		StartAt: base.Add(time.Duration(startMin) * time.Minute),
		EndAt:   base.Add(time.Duration(endMin) * time.Minute),
	}
}

func createInput(slot models.ServiceSlot) CreateInput {
	return CreateInput{WorkshopID: 5, VehicleID: 12, DriverID: 7, Slot: slot}
}

func TestSchedulerCreate(t *testing.T) {
	scheduler, _ := newTestScheduler(t)
	ctx := context.Background()

	appointment, events, err := scheduler.Create(ctx, createInput(slotAt(0, 60)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if appointment.Status != models.StatusPending {
		t.Fatalf("status = %s, want pending", appointment.Status)
	}
	if appointment.ID == 0 {
		t.Fatal("appointment id not assigned")
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	created, ok := events[0].(models.AppointmentCreated)
	if !ok {
		t.Fatalf("unexpected event %T", events[0])
	}
	if created.AppointmentID != appointment.ID || created.WorkshopID != 5 {
		t.Fatalf("unexpected event payload: %+v", created)
	}
}

func TestSchedulerCreatePreconditions(t *testing.T) {
	scheduler, _ := newTestScheduler(t)
	ctx := context.Background()

	in := createInput(slotAt(0, 60))
	in.DriverID = 99
	if _, _, err := scheduler.Create(ctx, in); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found for unknown driver, got %v", err)
	}

	in = createInput(slotAt(0, 60))
	in.VehicleID = 99
	if _, _, err := scheduler.Create(ctx, in); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found for unknown vehicle, got %v", err)
	}

	in = createInput(slotAt(0, 60))
	in.ServiceType = "teleportation"
	var validation *models.ValidationError
	if _, _, err := scheduler.Create(ctx, in); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for unknown service type, got %v", err)
	}
}

func TestSchedulerCreateCollaboratorFailure(t *testing.T) {
	store := newMemStore()
	vehicles := &fakeVehicles{err: models.CollaboratorErr("vehicle directory", errors.New("timeout"))}
	mechanics := &fakeMechanics{items: map[int64]*models.Mechanic{}}
	scheduler := NewScheduler(store, vehicles, mechanics, zap.NewNop())

	_, _, err := scheduler.Create(context.Background(), createInput(slotAt(0, 60)))
	if !errors.Is(err, models.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable, got %v", err)
	}
	if len(store.items) != 0 {
		t.Fatal("no appointment may be committed when validation fails")
	}
}

func TestSchedulerOverlapScenario(t *testing.T) {
	scheduler, _ := newTestScheduler(t)
	ctx := context.Background()

	// Book [10:00, 11:00) in workshop 5.
	first, _, err := scheduler.Create(ctx, createInput(slotAt(0, 60)))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	// Move it to [10:30, 11:30); the check must skip the appointment itself.
	if _, _, err := scheduler.Reschedule(ctx, first.ID, slotAt(30, 90)); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	// [11:30, 12:30) touches the rescheduled end and must not conflict.
	if _, _, err := scheduler.Create(ctx, createInput(slotAt(90, 150))); err != nil {
		t.Fatalf("create touching slot: %v", err)
	}

	// [10:45, 11:15) overlaps the rescheduled slot.
	if _, _, err := scheduler.Create(ctx, createInput(slotAt(45, 75))); !errors.Is(err, models.ErrSlotConflict) {
		t.Fatalf("expected slot conflict, got %v", err)
	}

	// The same window is free in a different workshop.
	other := createInput(slotAt(45, 75))
	other.WorkshopID = 6
	if _, _, err := scheduler.Create(ctx, other); err != nil {
		t.Fatalf("create in other workshop: %v", err)
	}

	// A cancelled appointment frees its window.
	blocked, _, err := scheduler.Create(ctx, createInput(slotAt(200, 260)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := scheduler.UpdateStatus(ctx, blocked.ID, models.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, _, err := scheduler.Create(ctx, createInput(slotAt(200, 260))); err != nil {
		t.Fatalf("create over cancelled slot: %v", err)
	}
}

func TestSchedulerConcurrentCreateSameWorkshop(t *testing.T) {
	scheduler, store := newTestScheduler(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = scheduler.Create(ctx, createInput(slotAt(0, 60)))
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, models.ErrSlotConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d creates succeeded for one slot, want exactly 1", succeeded)
	}
	if len(store.items) != 1 {
		t.Fatalf("%d appointments stored, want 1", len(store.items))
	}
}

func TestSchedulerRescheduleTerminal(t *testing.T) {
	scheduler, _ := newTestScheduler(t)
	ctx := context.Background()

	appointment, _, err := scheduler.Create(ctx, createInput(slotAt(0, 60)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, target := range []models.AppointmentStatus{models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted} {
		if _, _, err := scheduler.UpdateStatus(ctx, appointment.ID, target); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}

	if _, _, err := scheduler.Reschedule(ctx, appointment.ID, slotAt(120, 180)); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition rescheduling completed, got %v", err)
	}
	if _, _, err := scheduler.Reschedule(ctx, 404, slotAt(120, 180)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSchedulerStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		path    []models.AppointmentStatus
		target  models.AppointmentStatus
		changed bool
		wantErr bool
	}{
		{"pending to confirmed", nil, models.StatusConfirmed, true, false},
		{"pending to in_progress skips confirm", nil, models.StatusInProgress, false, true},
		{"pending to completed skips everything", nil, models.StatusCompleted, false, true},
		{"pending to cancelled", nil, models.StatusCancelled, true, false},
		{"pending to pending no-op", nil, models.StatusPending, false, false},
		{"confirmed to in_progress", []models.AppointmentStatus{models.StatusConfirmed}, models.StatusInProgress, true, false},
		{"confirmed to completed skips start", []models.AppointmentStatus{models.StatusConfirmed}, models.StatusCompleted, false, true},
		{"confirmed to cancelled", []models.AppointmentStatus{models.StatusConfirmed}, models.StatusCancelled, true, false},
		{"in_progress to completed", []models.AppointmentStatus{models.StatusConfirmed, models.StatusInProgress}, models.StatusCompleted, true, false},
		{"in_progress to cancelled", []models.AppointmentStatus{models.StatusConfirmed, models.StatusInProgress}, models.StatusCancelled, true, false},
		{"completed is terminal", []models.AppointmentStatus{models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted}, models.StatusCancelled, false, true},
		{"cancelled is terminal", []models.AppointmentStatus{models.StatusCancelled}, models.StatusConfirmed, false, true},
		{"same status no-op", []models.AppointmentStatus{models.StatusConfirmed}, models.StatusConfirmed, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scheduler, _ := newTestScheduler(t)
			ctx := context.Background()

			appointment, _, err := scheduler.Create(ctx, createInput(slotAt(0, 60)))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			for _, step := range tc.path {
				if _, _, err := scheduler.UpdateStatus(ctx, appointment.ID, step); err != nil {
					t.Fatalf("walk to %s: %v", step, err)
				}
			}

			changed, _, err := scheduler.UpdateStatus(ctx, appointment.ID, tc.target)
			if tc.wantErr {
				if !errors.Is(err, models.ErrInvalidTransition) {
					t.Fatalf("expected invalid transition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("update status: %v", err)
			}
			if changed != tc.changed {
				t.Fatalf("changed = %v, want %v", changed, tc.changed)
			}
		})
	}
}

func TestSchedulerCancelEmitsEvent(t *testing.T) {
	scheduler, _ := newTestScheduler(t)
	ctx := context.Background()

	appointment, _, err := scheduler.Create(ctx, createInput(slotAt(0, 60)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, events, err := scheduler.UpdateStatus(ctx, appointment.ID, models.StatusCancelled)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	var sawCanceled bool
	for _, event := range events {
		if canceled, ok := event.(models.AppointmentCanceled); ok {
			sawCanceled = true
			if canceled.AppointmentID != appointment.ID || canceled.CanceledAt.IsZero() {
				t.Fatalf("unexpected cancel payload: %+v", canceled)
			}
		}
	}
	if !sawCanceled {
		t.Fatal("cancel did not emit AppointmentCanceled")
	}
}

func TestSchedulerAddNote(t *testing.T) {
	scheduler, store := newTestScheduler(t)
	ctx := context.Background()

	appointment, _, err := scheduler.Create(ctx, createInput(slotAt(0, 60)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := scheduler.AddNote(ctx, appointment.ID, "customer reports vibration above 100 km/h", 7)
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if len(updated.Notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(updated.Notes))
	}

	stored, err := store.Get(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Notes) != 1 || stored.Notes[0].AuthorID != 7 {
		t.Fatalf("note not persisted: %+v", stored.Notes)
	}

	if _, err := scheduler.AddNote(ctx, appointment.ID, "", 7); err == nil {
		t.Fatal("expected empty note to be rejected")
	}
}

func TestSchedulerAssignMechanic(t *testing.T) {
	scheduler, _ := newTestScheduler(t)
	ctx := context.Background()

	appointment, _, err := scheduler.Create(ctx, createInput(slotAt(0, 60)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mechanic 41 belongs to workshop 7, the appointment to workshop 5.
	var validation *models.ValidationError
	if _, _, err := scheduler.AssignMechanic(ctx, appointment.ID, 41); !errors.As(err, &validation) {
		t.Fatalf("expected workshop mismatch validation error, got %v", err)
	}
	// Mechanic 42 has no workshop at all.
	if _, _, err := scheduler.AssignMechanic(ctx, appointment.ID, 42); !errors.As(err, &validation) {
		t.Fatalf("expected missing workshop validation error, got %v", err)
	}
	if _, _, err := scheduler.AssignMechanic(ctx, appointment.ID, 404); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	updated, events, err := scheduler.AssignMechanic(ctx, appointment.ID, 40)
	if err != nil {
		t.Fatalf("assign mechanic: %v", err)
	}
	if updated.MechanicID == nil || *updated.MechanicID != 40 {
		t.Fatalf("mechanic not bound: %+v", updated.MechanicID)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}

	_, events, err = scheduler.UnassignMechanic(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("unassign mechanic: %v", err)
	}
	unassigned, ok := events[0].(models.MechanicUnassigned)
	if !ok || unassigned.PreviousMechanicID != 40 {
		t.Fatalf("unexpected unassign event: %+v", events[0])
	}

	if _, _, err := scheduler.UnassignMechanic(ctx, appointment.ID); err == nil {
		t.Fatal("expected unassign without mechanic to fail")
	}
}
