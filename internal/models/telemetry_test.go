package models

import (
	"fmt"
	"testing"
	"time"
)

func ingestN(t *testing.T, agg *VehicleTelemetry, n int) {
	t.Helper()
	in := validSampleInput()
	sample, err := NewSample(in)
	if err != nil {
		t.Fatalf("new sample: %v", err)
	}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		if _, err := agg.Ingest(fmt.Sprintf("rec-%d", i), sample, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}
}

func TestVehicleTelemetryIngest(t *testing.T) {
	agg := NewVehicleTelemetry("agg-1", 12)

	ingestN(t, agg, 3)

	if agg.RecordCount() != 3 {
		t.Fatalf("record count = %d, want 3", agg.RecordCount())
	}
	if len(agg.Records()) != agg.RecordCount() {
		t.Fatalf("count %d does not match records %d", agg.RecordCount(), len(agg.Records()))
	}
	last, ok := agg.LastRecord()
	if !ok {
		t.Fatal("expected a last record")
	}
	if last.ID != "rec-2" {
		t.Fatalf("last record id = %s, want rec-2", last.ID)
	}
	if !agg.LastIngestedAt.Equal(last.IngestedAt) {
		t.Fatalf("last ingested at %v does not match last record %v", agg.LastIngestedAt, last.IngestedAt)
	}

	if _, ok := agg.Record("rec-1"); !ok {
		t.Fatal("expected rec-1 to be readable by id")
	}
	if _, ok := agg.Record("rec-9"); ok {
		t.Fatal("unexpected record rec-9")
	}
}

func TestVehicleTelemetryIngestRejectsNilAndUnbound(t *testing.T) {
	agg := NewVehicleTelemetry("agg-1", 12)

	if _, err := agg.Ingest("rec-0", nil, time.Now()); err == nil {
		t.Fatal("expected nil sample to be rejected")
	}

	in := validSampleInput()
	in.VehicleID = 0
	unbound, err := NewSample(in)
	if err != nil {
		t.Fatalf("new sample: %v", err)
	}
	if _, err := agg.Ingest("rec-0", unbound, time.Now()); err == nil {
		t.Fatal("expected unbound sample to be rejected")
	}
	if agg.RecordCount() != 0 {
		t.Fatalf("rejected ingest mutated the aggregate: count = %d", agg.RecordCount())
	}
}

func TestVehicleTelemetryFlush(t *testing.T) {
	agg := NewVehicleTelemetry("agg-1", 12)
	ingestN(t, agg, 5)

	drained := agg.Flush()
	if len(drained) != 5 {
		t.Fatalf("flush drained %d records, want 5", len(drained))
	}
	if agg.RecordCount() != 0 {
		t.Fatalf("record count after flush = %d, want 0", agg.RecordCount())
	}
	if len(agg.Records()) != 0 {
		t.Fatalf("records remain after flush: %d", len(agg.Records()))
	}

	// Flushing an empty aggregate is legal and drains nothing.
	if drained := agg.Flush(); len(drained) != 0 {
		t.Fatalf("second flush drained %d records, want 0", len(drained))
	}
}
