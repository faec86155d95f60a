package rabbitmq

import (
	"fmt"
	"store-nav/internal/general/contracts"

	amqp "github.com/rabbitmq/amqp091-go"
)

func declareTopology(ch *amqp.Channel) error {
	// 1. Exchanges
	exchanges := []struct {
		name string
		kind string
	}{
		{contracts.ExchangeRobotTopic, "topic"},
		{contracts.ExchangeNavigationTopic, "topic"},
		{contracts.ExchangeTelemetryFanout, "fanout"},
	}

	for _, ex := range exchanges {
		if err := ch.ExchangeDeclare(ex.name, ex.kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	// 2. Queues
	queues := []string{
		contracts.QueueRobotCommands,
		contracts.QueueNavigationStatus,
		contracts.QueueTelemetryNavigation,
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	// 3. Bindings
	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{contracts.QueueRobotCommands, contracts.ExchangeRobotTopic, contracts.RouteRobotCommandPrefix + "#"},
		{contracts.QueueNavigationStatus, contracts.ExchangeNavigationTopic, contracts.RouteNavigationStatusPrefix + "*"},
		{contracts.QueueTelemetryNavigation, contracts.ExchangeTelemetryFanout, ""},
	}

	for _, b := range bindings {
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
