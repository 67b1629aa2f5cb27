package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"autocare/internal/models"
)

// TelemetryArchive stores flushed telemetry records. The whole batch commits
// in one transaction; a failed archive leaves the live aggregate untouched.
type TelemetryArchive struct {
	db *sql.DB
}

// NewTelemetryArchive returns archive.
func NewTelemetryArchive(db *sql.DB) *TelemetryArchive {
	return &TelemetryArchive{db: db}
}

// ArchiveRecords writes the drained records for the vehicle.
func (a *TelemetryArchive) ArchiveRecords(ctx context.Context, vehicleID int64, records []models.TelemetryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive: begin: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO telemetry_archive (record_id, vehicle_id, driver_id, sample, ingested_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	for _, record := range records {
		payload, err := json.Marshal(record.Sample)
		if err != nil {
			return fmt.Errorf("archive: encode sample: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			record.ID,
			vehicleID,
			record.Sample.DriverID,
			payload,
			record.IngestedAt,
		); err != nil {
			return fmt.Errorf("archive: insert record %s: %w", record.ID, err)
		}
	}

	return tx.Commit()
}
