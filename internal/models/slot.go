package models

import "time"

// nowFunc is swapped in tests to pin slot construction time.
var nowFunc = time.Now

// ServiceSlot is a half-open booking window [StartAt, EndAt).
type ServiceSlot struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// NewServiceSlot validates that the window is non-empty and starts in the
// future. The future check happens here only; slots already stored are never
// re-validated on read.
func NewServiceSlot(startAt, endAt time.Time) (ServiceSlot, error) {
	if startAt.IsZero() || endAt.IsZero() {
		return ServiceSlot{}, invalid("slot", "start and end are required")
	}
	if !endAt.After(startAt) {
		return ServiceSlot{}, invalid("slot", "end must be after start")
	}
	if !startAt.After(nowFunc()) {
		return ServiceSlot{}, invalid("slot", "start must be in the future")
	}
	return ServiceSlot{StartAt: startAt.UTC(), EndAt: endAt.UTC()}, nil
}

// Overlaps reports whether two half-open windows share interior time.
// Touching endpoints do not overlap.
func (s ServiceSlot) Overlaps(other ServiceSlot) bool {
	return s.StartAt.Before(other.EndAt) && s.EndAt.After(other.StartAt)
}

// Duration of the window.
func (s ServiceSlot) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}
