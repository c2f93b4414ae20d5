package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

func DialRabbit(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}
