// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	"context"
	"net/url"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange     = "locale"
	CountryChangedTopic = "country.changed"
)

type RabbitMQConfig struct {
	AMQPURL  string
	Exchange string
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type dialFunc func(amqpURL string) (*amqp.Connection, channel, error)

type Publisher struct {
	AMQPURL  *url.URL
	Exchange string

	mu      sync.Mutex
	dial    dialFunc
	conn    *amqp.Connection
	channel channel
}
