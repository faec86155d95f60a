package service

import (
	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/navigation"
	"store-nav/internal/general/logger"
	"store-nav/internal/general/rabbitmq"
	"store-nav/internal/general/websocket"
	"store-nav/internal/planner"
	"store-nav/internal/ports"
)

// defaultOrigin is where a route starts when a robot has no telemetry yet
// (fresh deployment, robot parked at the entrance kiosk).
var defaultOrigin = geo.Coordinate{X: 5, Y: 5}

// navigationService encapsulates the navigation service logic and dependencies.
type navigationService struct {
	logger    *logger.Logger
	uow       ports.UnitOfWork
	sessions  ports.SessionRepository
	products  ports.ProductRepository
	robots    ports.RobotRepository
	telemetry ports.TelemetrySource
	gateway   ports.CommandGateway
	planner   *planner.Planner
	plan      geo.FloorPlan
	speedMS   float64
	pub       *rabbitmq.MQPublisher
	rabbitmq  *rabbitmq.Client
	websocket *websocket.WebSocket
}

// NewNavigationService creates a new instance of the NavigationService with the provided dependencies.
// pub, rabbitmq and ws may be nil; the service then skips publishing and push notifications.
func NewNavigationService(
	log *logger.Logger,
	uow ports.UnitOfWork,
	sessions ports.SessionRepository,
	products ports.ProductRepository,
	robots ports.RobotRepository,
	telemetry ports.TelemetrySource,
	gateway ports.CommandGateway,
	pathPlanner *planner.Planner,
	plan geo.FloorPlan,
	speedMS float64,
	pub *rabbitmq.MQPublisher,
	mq *rabbitmq.Client,
	ws *websocket.WebSocket,
) ports.NavigationService {
	return &navigationService{
		logger:    log,
		uow:       uow,
		sessions:  sessions,
		products:  products,
		robots:    robots,
		telemetry: telemetry,
		gateway:   gateway,
		planner:   pathPlanner,
		plan:      plan,
		speedMS:   navigation.ClampSpeed(speedMS),
		pub:       pub,
		rabbitmq:  mq,
		websocket: ws,
	}
}
