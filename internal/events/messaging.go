package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange            = "storefront.events"
	CartLineChangedRoutingKey = "cart.linechanged.v1"

	producerName = "storefront-bff-go"
)

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
