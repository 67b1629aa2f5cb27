package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autocare/internal/models"
)

// Archive receives drained records at the flush boundary. A flush commits
// nothing when the archive write fails.
type Archive interface {
	ArchiveRecords(ctx context.Context, vehicleID int64, records []models.TelemetryRecord) error
}

// Service ingests telemetry samples into per-vehicle aggregates and runs the
// alert evaluator over each one. Ingest and Flush for the same vehicle are
// serialized by the store; different vehicles never block each other.
type Service struct {
	store     *Store
	archive   Archive
	evaluator *Evaluator
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService builds the ingestion service. newID produces record ids.
func NewService(store *Store, archive Archive, evaluator *Evaluator, logger *zap.Logger, newID func() string) *Service {
	return &Service{
		store:     store,
		archive:   archive,
		evaluator: evaluator,
		logger:    logger,
		now:       time.Now,
		newID:     newID,
	}
}

// Ingest appends the sample to its vehicle's aggregate and classifies it.
// The returned events carry the ingestion fact plus one alert event per
// triggered rule; the caller dispatches them.
func (s *Service) Ingest(ctx context.Context, sample *models.Sample) (models.TelemetryRecord, Classification, []models.Event, error) {
	if sample == nil {
		return models.TelemetryRecord{}, Classification{}, nil, &models.ValidationError{Field: "sample", Reason: "sample is required"}
	}
	// Reject unbound samples before the store creates an aggregate entry.
	if !sample.Bound() {
		return models.TelemetryRecord{}, Classification{}, nil, &models.ValidationError{Field: "sample", Reason: "vehicle and driver must be bound before ingestion"}
	}

	agg, unlock := s.store.acquire(sample.VehicleID)
	record, err := agg.Ingest(s.newID(), sample, s.now())
	unlock()
	if err != nil {
		return models.TelemetryRecord{}, Classification{}, nil, err
	}

	classification, err := s.evaluator.Classify(sample)
	if err != nil {
		return models.TelemetryRecord{}, Classification{}, nil, err
	}

	events := []models.Event{models.SampleIngested{
		RecordID:   record.ID,
		Sample:     record.Sample,
		IngestedAt: record.IngestedAt,
	}}
	for _, kind := range classification.Kinds() {
		events = append(events, models.AlertRaised{
			RecordID:  record.ID,
			VehicleID: sample.VehicleID,
			DriverID:  sample.DriverID,
			Kind:      kind,
		})
		s.logAlert(kind, sample, record.ID)
	}

	return record, classification, events, nil
}

// Flush drains the vehicle's aggregate into the archive and returns the
// archived count. Flushing a vehicle with no live records returns 0.
func (s *Service) Flush(ctx context.Context, vehicleID int64) (int, []models.Event, error) {
	agg, unlock, ok := s.store.peek(vehicleID)
	if !ok {
		return 0, nil, nil
	}
	defer unlock()

	records := agg.Records()
	if len(records) > 0 && s.archive != nil {
		if err := s.archive.ArchiveRecords(ctx, vehicleID, records); err != nil {
			return 0, nil, err
		}
	}

	drained := agg.Flush()
	count := len(drained)

	s.logger.Info("telemetry flushed",
		zap.Int64("vehicle_id", vehicleID),
		zap.Int("count", count),
	)

	events := []models.Event{models.Flushed{
		AggregateID: agg.ID,
		VehicleID:   vehicleID,
		Count:       count,
		FlushedAt:   s.now().UTC(),
	}}
	return count, events, nil
}

// Latest returns the most recently ingested live record for the vehicle.
func (s *Service) Latest(ctx context.Context, vehicleID int64) (models.TelemetryRecord, bool) {
	agg, unlock, ok := s.store.peek(vehicleID)
	if !ok {
		return models.TelemetryRecord{}, false
	}
	defer unlock()
	return agg.LastRecord()
}

// RecordByID returns a live record by its id.
func (s *Service) RecordByID(ctx context.Context, vehicleID int64, recordID string) (models.TelemetryRecord, bool) {
	agg, unlock, ok := s.store.peek(vehicleID)
	if !ok {
		return models.TelemetryRecord{}, false
	}
	defer unlock()
	return agg.Record(recordID)
}

// RecordCount returns the number of live records for the vehicle.
func (s *Service) RecordCount(ctx context.Context, vehicleID int64) int {
	agg, unlock, ok := s.store.peek(vehicleID)
	if !ok {
		return 0
	}
	defer unlock()
	return agg.RecordCount()
}

func (s *Service) logAlert(kind string, sample *models.Sample, recordID string) {
	fields := []zap.Field{
		zap.String("kind", kind),
		zap.String("record_id", recordID),
		zap.Int64("vehicle_id", sample.VehicleID),
		zap.String("severity", string(sample.Severity)),
	}
	switch kind {
	case AlertUrgent, AlertToxicGas:
		s.logger.Warn("telemetry alert", fields...)
	default:
		s.logger.Info("telemetry alert", fields...)
	}
}
