package ports

import "store-nav/internal/domain/geo"

// MoveCommand tells a robot to drive to a destination along a planned route.
type MoveCommand struct {
	CommandID   string
	RobotID     string
	Destination geo.Coordinate
	Waypoints   []geo.Coordinate
	SpeedMS     float64
	VoiceGuide  bool
	Message     string
}

// StopCommand tells a robot to halt where it is.
type StopCommand struct {
	CommandID string
	RobotID   string
	Reason    string
}

// SpeakCommand tells a robot to say something.
type SpeakCommand struct {
	CommandID    string
	RobotID      string
	Text         string
	LanguageCode string
}
