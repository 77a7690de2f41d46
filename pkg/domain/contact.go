package domain

import "github.com/google/uuid"

// EmergencyContact is a person notified when the emergency button fires.
// A user registers at least one; the list is ordered by priority.
type EmergencyContact struct {
	ID       uuid.UUID `json:"id,omitempty"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Relation string    `json:"relation,omitempty"`
}
