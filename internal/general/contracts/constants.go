package contracts

// Exchanges
const (
	ExchangeRobotTopic      = "robot_topic"
	ExchangeNavigationTopic = "navigation_topic"
	ExchangeTelemetryFanout = "telemetry_fanout"
)

// Queues
const (
	QueueRobotCommands       = "robot_commands"
	QueueNavigationStatus    = "navigation_status"
	QueueTelemetryNavigation = "robot_telemetry_navigation"
)

// Routing patterns
const (
	RouteRobotCommandPrefix     = "robot.command."     // {command}.{robot_id}
	RouteNavigationStatusPrefix = "navigation.status." // {status}
)
