package contracts

// Robot command messages are published by Navigation Service.
// Routing key: "robot.command.{command}.{robot_id}" on ExchangeRobotTopic.
// Commands are fire-and-forget; robots never reply on this channel.

const (
	CommandMove  = "MOVE"
	CommandStop  = "STOP"
	CommandSpeak = "SPEAK"
)

// MoveCommandMessage tells a robot to drive along a planned route.
type MoveCommandMessage struct {
	CommandID   string  `json:"command_id"`
	RobotID     string  `json:"robot_id"`
	Command     string  `json:"command"` // CommandMove
	Destination Point   `json:"destination"`
	Waypoints   []Point `json:"waypoints,omitempty"`
	SpeedMS     float64 `json:"speed_ms,omitempty"`
	VoiceGuide  bool    `json:"voice_guide,omitempty"`
	Message     string  `json:"message,omitempty"`
	Envelope
}

// StopCommandMessage tells a robot to halt in place.
type StopCommandMessage struct {
	CommandID string `json:"command_id"`
	RobotID   string `json:"robot_id"`
	Command   string `json:"command"` // CommandStop
	Reason    string `json:"reason,omitempty"`
	Envelope
}

// SpeakCommandMessage tells a robot to say a phrase.
type SpeakCommandMessage struct {
	CommandID    string `json:"command_id"`
	RobotID      string `json:"robot_id"`
	Command      string `json:"command"` // CommandSpeak
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`
	Envelope
}
