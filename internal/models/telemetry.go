package models

import "time"

// TelemetryRecord is one ingested sample together with its ingestion stamp.
// Records are owned by their VehicleTelemetry aggregate and can be read by id
// but never mutated independently.
type TelemetryRecord struct {
	ID         string    `json:"id"`
	Sample     Sample    `json:"sample"`
	IngestedAt time.Time `json:"ingested_at"`
}

// VehicleTelemetry accumulates the live telemetry stream for one vehicle. It
// is created lazily on first ingest and drained by Flush at the archival
// boundary. The aggregate itself is not goroutine safe; the telemetry store
// serializes access per vehicle.
type VehicleTelemetry struct {
	ID             string
	VehicleID      int64
	LastIngestedAt time.Time

	records []TelemetryRecord
	count   int
}

// NewVehicleTelemetry starts an empty aggregate for the vehicle.
func NewVehicleTelemetry(id string, vehicleID int64) *VehicleTelemetry {
	return &VehicleTelemetry{ID: id, VehicleID: vehicleID}
}

// Ingest appends a record for the sample and advances the counters.
func (t *VehicleTelemetry) Ingest(recordID string, sample *Sample, ingestedAt time.Time) (TelemetryRecord, error) {
	if sample == nil {
		return TelemetryRecord{}, invalid("sample", "sample is required")
	}
	if !sample.Bound() {
		return TelemetryRecord{}, invalid("sample", "vehicle and driver must be bound before ingestion")
	}
	record := TelemetryRecord{ID: recordID, Sample: *sample, IngestedAt: ingestedAt.UTC()}
	t.records = append(t.records, record)
	t.count++
	t.LastIngestedAt = record.IngestedAt
	return record, nil
}

// Flush drains every accumulated record and resets the count. The returned
// slice is the caller's only receipt of what was archived; flushing an empty
// aggregate is legal and returns nil.
func (t *VehicleTelemetry) Flush() []TelemetryRecord {
	drained := t.records
	t.records = nil
	t.count = 0
	return drained
}

// RecordCount returns the number of live records. Always equal to the length
// of the record list between operations.
func (t *VehicleTelemetry) RecordCount() int {
	return t.count
}

// LastRecord returns the most recently ingested record.
func (t *VehicleTelemetry) LastRecord() (TelemetryRecord, bool) {
	if len(t.records) == 0 {
		return TelemetryRecord{}, false
	}
	return t.records[len(t.records)-1], true
}

// Record returns a live record by id.
func (t *VehicleTelemetry) Record(id string) (TelemetryRecord, bool) {
	for _, r := range t.records {
		if r.ID == id {
			return r, true
		}
	}
	return TelemetryRecord{}, false
}

// Records returns a copy of the live record list.
func (t *VehicleTelemetry) Records() []TelemetryRecord {
	out := make([]TelemetryRecord, len(t.records))
	copy(out, t.records)
	return out
}
