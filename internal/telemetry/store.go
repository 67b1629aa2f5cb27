package telemetry

import (
	"sync"

	"autocare/internal/models"
)

// entry pairs a vehicle's aggregate with the mutex that serializes its
// mutations.
type entry struct {
	mu  sync.Mutex
	agg *models.VehicleTelemetry
}

// Store keeps the live telemetry aggregate per vehicle. Aggregates are
// created lazily on first ingest; operations on the same vehicle are
// serialized while different vehicles proceed independently.
type Store struct {
	mu       sync.RWMutex
	vehicles map[int64]*entry

	newID func() string
}

// NewStore returns an empty store. newID produces aggregate identities.
func NewStore(newID func() string) *Store {
	return &Store{
		vehicles: make(map[int64]*entry),
		newID:    newID,
	}
}

// acquire returns the vehicle's entry with its mutex held. The caller must
// invoke the returned unlock func.
func (s *Store) acquire(vehicleID int64) (*models.VehicleTelemetry, func()) {
	s.mu.RLock()
	e, ok := s.vehicles[vehicleID]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		e, ok = s.vehicles[vehicleID]
		if !ok {
			e = &entry{agg: models.NewVehicleTelemetry(s.newID(), vehicleID)}
			s.vehicles[vehicleID] = e
		}
		s.mu.Unlock()
	}

	e.mu.Lock()
	return e.agg, e.mu.Unlock
}

// peek returns the vehicle's entry without creating one.
func (s *Store) peek(vehicleID int64) (*models.VehicleTelemetry, func(), bool) {
	s.mu.RLock()
	e, ok := s.vehicles[vehicleID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	e.mu.Lock()
	return e.agg, e.mu.Unlock, true
}
