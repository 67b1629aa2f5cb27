package scheduling

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"autocare/internal/models"
)

// WorkshopService applies workshop-level mechanic assignment. The mechanic's
// workshop binding and both workshop counters change through a single atomic
// directory write; the lock keeps the idempotence check consistent under
// concurrent reassignment.
type WorkshopService struct {
	workshops WorkshopDirectory
	mechanics MechanicDirectory
	logger    *zap.Logger

	mu sync.Mutex
}

// NewWorkshopService builds the service.
func NewWorkshopService(workshops WorkshopDirectory, mechanics MechanicDirectory, logger *zap.Logger) *WorkshopService {
	return &WorkshopService{
		workshops: workshops,
		mechanics: mechanics,
		logger:    logger,
	}
}

// AssignMechanicToWorkshop moves a mechanic into the workshop. Reassigning a
// mechanic to the workshop it already belongs to is an idempotent no-op; a
// move from another workshop decrements that workshop's counter in the same
// write that increments the target's.
func (s *WorkshopService) AssignMechanicToWorkshop(ctx context.Context, mechanicID, workshopID int64) (*models.Mechanic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.workshops.FindWorkshop(ctx, workshopID); err != nil {
		return nil, err
	}
	mechanic, err := s.mechanics.FindMechanic(ctx, mechanicID)
	if err != nil {
		return nil, err
	}

	if mechanic.WorkshopID != nil && *mechanic.WorkshopID == workshopID {
		return mechanic, nil
	}

	if err := s.workshops.MoveMechanic(ctx, mechanicID, mechanic.WorkshopID, workshopID); err != nil {
		return nil, err
	}
	mechanic.WorkshopID = &workshopID

	s.logger.Info("mechanic assigned to workshop",
		zap.Int64("mechanic_id", mechanicID),
		zap.Int64("workshop_id", workshopID),
	)
	return mechanic, nil
}
