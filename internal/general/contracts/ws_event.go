package contracts

import "time"

// WSCustomerSessionStatus mirrors messages sent over customer WebSocket.
type WSCustomerSessionStatus struct {
	Type              string  `json:"type"` // "session_status_update"
	SessionID         string  `json:"session_id"`
	RobotID           string  `json:"robot_id"`
	Status            string  `json:"status"`
	ProgressPercent   float64 `json:"progress_percent"`
	DistanceRemaining float64 `json:"distance_remaining"`
	TimeRemaining     float64 `json:"time_remaining"`
	Envelope          // allows correlation_id reuse
}

// WSRobotTelemetry mirrors "telemetry" frames sent by robots over WebSocket.
type WSRobotTelemetry struct {
	Type           string    `json:"type"` // "telemetry"
	RobotID        string    `json:"robot_id,omitempty"`
	Location       Point     `json:"location"`
	HeadingDegrees float64   `json:"heading_degrees,omitempty"`
	BatteryPercent int       `json:"battery_percent,omitempty"`
	Status         string    `json:"status,omitempty"`
	Timestamp      time.Time `json:"timestamp,omitempty"`
	Envelope
}
