package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"snackapp/internal/config"
)

func NewConnection(cfg config.RabbitMQConfig) (*amqp.Connection, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}
	return conn, nil
}

// DeclareTopology makes sure the exchanges and queues this service touches
// exist. Declarations are idempotent.
func DeclareTopology(ch *amqp.Channel, cfg config.RabbitMQConfig) error {
	if cfg.PaymentExchange != "" {
		if err := ch.ExchangeDeclare(cfg.PaymentExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declaring exchange %s: %w", cfg.PaymentExchange, err)
		}
	}
	if cfg.KitchenExchange != "" {
		if err := ch.ExchangeDeclare(cfg.KitchenExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declaring exchange %s: %w", cfg.KitchenExchange, err)
		}
	}

	queues := []string{cfg.PaymentCreatedQueue, cfg.PaymentStatusQueue}
	if cfg.KitchenExchange == "" {
		queues = append(queues, cfg.KitchenRoutingKey)
	}
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declaring queue %s: %w", q, err)
		}
	}

	return nil
}
