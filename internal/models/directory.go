package models

// Mechanic is the directory's view of a mechanic. WorkshopID is nil while the
// mechanic has no workshop assignment.
type Mechanic struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	WorkshopID *int64 `json:"workshop_id,omitempty"`
}

// Workshop is the directory's view of a workshop, including the stored
// mechanic counter maintained by workshop-level assignment.
type Workshop struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	MechanicCount int    `json:"mechanic_count"`
}
