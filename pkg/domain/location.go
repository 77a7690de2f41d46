package domain

import "time"

// LocationSample is one tracked position of the user's device.
// Samples are produced by the backend and rendered as-is, never mutated.
type LocationSample struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Address   string    `json:"address,omitempty"`
}
