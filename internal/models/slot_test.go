package models

import (
	"errors"
	"testing"
	"time"
)

func pinNow(t *testing.T, now time.Time) {
	t.Helper()
	original := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = original })
}

func mustSlot(t *testing.T, start, end time.Time) ServiceSlot {
	t.Helper()
	slot, err := NewServiceSlot(start, end)
	if err != nil {
		t.Fatalf("new slot: %v", err)
	}
	return slot
}

func TestNewServiceSlotValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pinNow(t, now)

	if _, err := NewServiceSlot(now.Add(time.Hour), now.Add(2*time.Hour)); err != nil {
		t.Fatalf("valid slot rejected: %v", err)
	}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"zero start", time.Time{}, now.Add(time.Hour)},
		{"end equals start", now.Add(time.Hour), now.Add(time.Hour)},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour)},
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour)},
		{"start exactly now", now, now.Add(time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewServiceSlot(tc.start, tc.end)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestServiceSlotOverlaps(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pinNow(t, now)

	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		a    ServiceSlot
		b    ServiceSlot
		want bool
	}{
		{"disjoint before", mustSlot(t, at(10, 0), at(11, 0)), mustSlot(t, at(12, 0), at(13, 0)), false},
		{"disjoint after", mustSlot(t, at(12, 0), at(13, 0)), mustSlot(t, at(10, 0), at(11, 0)), false},
		{"touching endpoints", mustSlot(t, at(10, 0), at(11, 0)), mustSlot(t, at(11, 0), at(12, 0)), false},
		{"touching endpoints reversed", mustSlot(t, at(11, 0), at(12, 0)), mustSlot(t, at(10, 0), at(11, 0)), false},
		{"identical", mustSlot(t, at(10, 0), at(11, 0)), mustSlot(t, at(10, 0), at(11, 0)), true},
		{"partial overlap", mustSlot(t, at(10, 0), at(11, 0)), mustSlot(t, at(10, 30), at(11, 30)), true},
		{"contained", mustSlot(t, at(10, 0), at(12, 0)), mustSlot(t, at(10, 30), at(11, 0)), true},
		{"containing", mustSlot(t, at(10, 30), at(11, 0)), mustSlot(t, at(10, 0), at(12, 0)), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("overlaps is not symmetric: %v, want %v", got, tc.want)
			}
		})
	}
}
