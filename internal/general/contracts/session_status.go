package contracts

import "time"

// SessionStatusMessage is published by Navigation Service on every session
// state or progress change.
// Routing key: "navigation.status.{status}" on ExchangeNavigationTopic.
type SessionStatusMessage struct {
	SessionID         string    `json:"session_id"`
	RobotID           string    `json:"robot_id"`
	Status            string    `json:"status"` // NAVIGATING|PAUSED|ARRIVED|FAILED
	ProgressPercent   float64   `json:"progress_percent"`
	DistanceRemaining float64   `json:"distance_remaining"`
	TimeRemaining     float64   `json:"time_remaining"`
	Timestamp         time.Time `json:"timestamp"`
	Envelope
}
