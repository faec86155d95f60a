package contracts

import "time"

// TelemetryMessage is broadcast for every accepted robot position report.
// Exchange: ExchangeTelemetryFanout (fanout, no routing key).
type TelemetryMessage struct {
	RobotID        string    `json:"robot_id"`
	Location       Point     `json:"location"`
	HeadingDegrees float64   `json:"heading_degrees,omitempty"`
	BatteryPercent int       `json:"battery_percent,omitempty"`
	Status         string    `json:"status,omitempty"` // AVAILABLE|BUSY|CHARGING|ERROR|OFFLINE
	Timestamp      time.Time `json:"timestamp"`
	Envelope
}
