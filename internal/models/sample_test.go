package models

import (
	"errors"
	"testing"
	"time"
)

func validSampleInput() SampleInput {
	return SampleInput{
		Type:       "engine",
		Severity:   "low",
		OccurredAt: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		VehicleID:  12,
		DriverID:   7,
	}
}

func TestNewSampleRequiredFields(t *testing.T) {
	if _, err := NewSample(validSampleInput()); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*SampleInput)
	}{
		{"unknown type", func(in *SampleInput) { in.Type = "hovercraft" }},
		{"unknown severity", func(in *SampleInput) { in.Severity = "mild" }},
		{"missing occurred_at", func(in *SampleInput) { in.OccurredAt = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSampleInput()
			tc.mutate(&in)
			_, err := NewSample(in)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNewSampleValidatesOptionalFields(t *testing.T) {
	in := validSampleInput()
	in.SpeedKmh = f(-3)
	if _, err := NewSample(in); err == nil {
		t.Fatal("expected negative speed to be rejected")
	}

	in = validSampleInput()
	in.TirePressure = &TirePressure{FrontLeft: f(90)}
	if _, err := NewSample(in); err == nil {
		t.Fatal("expected out-of-band tire pressure to be rejected")
	}

	in = validSampleInput()
	in.SpeedKmh = f(62.5)
	in.Location = &GeoPoint{Lat: 52.5, Lon: 13.4}
	in.CurrentAmps = f(-14)
	sample, err := NewSample(in)
	if err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}
	if sample.Speed == nil || float64(*sample.Speed) != 62.5 {
		t.Fatalf("speed not carried over: %+v", sample.Speed)
	}
	if sample.Current == nil || float64(*sample.Current) != -14 {
		t.Fatalf("current not carried over: %+v", sample.Current)
	}
	if sample.Odometer != nil {
		t.Fatal("absent odometer should stay nil")
	}
}

func TestSampleBound(t *testing.T) {
	in := validSampleInput()
	sample, err := NewSample(in)
	if err != nil {
		t.Fatalf("new sample: %v", err)
	}
	if !sample.Bound() {
		t.Fatal("expected sample with vehicle and driver to be bound")
	}

	in.DriverID = 0
	unbound, err := NewSample(in)
	if err != nil {
		t.Fatalf("new sample: %v", err)
	}
	if unbound.Bound() {
		t.Fatal("expected sample without driver to be unbound")
	}
}
