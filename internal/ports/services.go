package ports

import (
	"context"
	"errors"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/robot"
	"store-nav/internal/planner"
)

// ErrNoRoute is returned by operations that need a plan to proceed (guide,
// move) when the planner reports failure (blocked or out-of-bounds
// endpoints, unreachable goal). PlanPath instead returns the unsuccessful
// PathResult itself.
var ErrNoRoute = errors.New("no feasible route")

// ----- DTOs for the Navigation Service -----

// GuideInput is the validated input to start guiding a customer to a product.
type GuideInput struct {
	ProductID  string
	RobotID    string
	CustomerID string
	// Start overrides the robot's telemetry position when set.
	Start *geo.Coordinate
}

// ProductBrief is the catalog summary echoed in guide/nearby responses.
type ProductBrief struct {
	ProductID string         `json:"product_id"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Price     float64        `json:"price"`
	Location  geo.Coordinate `json:"location"`
}

// GuideResult is returned by NavigationService.Guide().
type GuideResult struct {
	SessionID        string             `json:"session_id"`
	Product          ProductBrief       `json:"product"`
	RobotLocation    geo.Coordinate     `json:"robot_location"`
	Path             planner.PathResult `json:"path"`
	EstimatedArrival time.Time          `json:"estimated_arrival"`
	Message          string             `json:"message"`
}

// PlanPathInput is the validated input for a bare path computation.
type PlanPathInput struct {
	Start   geo.Coordinate
	End     geo.Coordinate
	SpeedMS float64
}

// SessionSnapshot is a consistent read of one navigation session.
type SessionSnapshot struct {
	SessionID         string         `json:"session_id"`
	RobotID           string         `json:"robot_id"`
	ProductID         string         `json:"product_id"`
	Status            string         `json:"status"`
	CurrentLocation   geo.Coordinate `json:"current_location"`
	Destination       geo.Coordinate `json:"destination"`
	ProgressPercent   float64        `json:"progress_percent"`
	DistanceRemaining float64        `json:"distance_remaining"`
	TimeRemaining     float64        `json:"time_remaining"`
	TotalDistance     float64        `json:"total_distance"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ReportProgressInput carries one progress report from a robot.
type ReportProgressInput struct {
	SessionID string
	Location  geo.Coordinate
	// StatusToken is the robot's optional status string; unknown tokens are
	// logged and ignored.
	StatusToken string
}

// MoveRobotInput is the validated input for a direct move command.
type MoveRobotInput struct {
	RobotID     string
	Destination geo.Coordinate
	SpeedMS     float64
	VoiceGuide  bool
	Message     string
}

// MoveRobotResult acknowledges a dispatched move command.
type MoveRobotResult struct {
	CommandID            string         `json:"command_id"`
	RobotID              string         `json:"robot_id"`
	CurrentLocation      geo.Coordinate `json:"current_location"`
	Destination          geo.Coordinate `json:"destination"`
	EstimatedTimeSeconds float64        `json:"estimated_time_seconds"`
	Message              string         `json:"message"`
}

// StopRobotInput is the validated input for an emergency/normal stop.
type StopRobotInput struct {
	RobotID string
	Reason  string
}

// CommandAck acknowledges a dispatched stop or speak command.
type CommandAck struct {
	CommandID string `json:"command_id"`
	RobotID   string `json:"robot_id"`
	Message   string `json:"message"`
}

// SpeakInput is the validated input for a text-to-speech command.
type SpeakInput struct {
	RobotID      string
	Text         string
	LanguageCode string
}

// NearbyInput is the validated input for a radius product search.
type NearbyInput struct {
	Center  geo.Coordinate
	RadiusM float64
	Limit   int
}

// NearbyProduct is one radius search hit.
type NearbyProduct struct {
	ProductBrief
	DistanceM float64 `json:"distance_m"`
}

// NearbyResult is returned by NavigationService.Nearby().
type NearbyResult struct {
	Center   geo.Coordinate  `json:"center"`
	RadiusM  float64         `json:"radius_m"`
	Products []NearbyProduct `json:"products"`
	Total    int             `json:"total"`
}

// LocationsResult is the combined store map: zones, located products, latest
// robot positions and charging stations.
type LocationsResult struct {
	Zones            []geo.Zone       `json:"zones"`
	Products         []ProductBrief   `json:"products"`
	Robots           []robot.Location `json:"robots"`
	ChargingStations []geo.Coordinate `json:"charging_stations"`
}

// ----- Navigation Service Interface -----

// NavigationService exposes the boundary for the navigation service.
type NavigationService interface {
	Guide(ctx context.Context, in GuideInput) (GuideResult, error)
	PlanPath(ctx context.Context, in PlanPathInput) (planner.PathResult, error)
	GetSessionStatus(ctx context.Context, sessionID string) (SessionSnapshot, error)
	ReportProgress(ctx context.Context, in ReportProgressInput) (SessionSnapshot, error)
	MoveRobot(ctx context.Context, in MoveRobotInput) (MoveRobotResult, error)
	StopRobot(ctx context.Context, in StopRobotInput) (CommandAck, error)
	Speak(ctx context.Context, in SpeakInput) (CommandAck, error)
	Nearby(ctx context.Context, in NearbyInput) (NearbyResult, error)
	GetFloorPlan(ctx context.Context) (geo.FloorPlan, error)
	Locations(ctx context.Context) (LocationsResult, error)
	RunBackgroundConsumers(ctx context.Context)
}
