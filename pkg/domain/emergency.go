package domain

import (
	"time"

	"github.com/google/uuid"
)

// Risk levels assigned to an incident by the backend's AI analysis.
// Ordinal categories: 상 (high), 중 (medium), 하 (low).
const (
	RiskHigh   = "상"
	RiskMedium = "중"
	RiskLow    = "하"
)

// EmergencyRecord is a stored incident triggered by the user's emergency
// button, with where and when it happened and the AI's assessment.
type EmergencyRecord struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	AISummary string    `json:"aiSummary"`
	RiskLevel string    `json:"riskLevel"`
	Resolved  bool      `json:"resolved,omitempty"`
}
