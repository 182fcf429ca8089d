package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"snackapp/internal/messaging"
)

type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends JSON events as persistent messages. An amqp channel is not
// safe for concurrent use, so publishes are serialized.
type Publisher struct {
	mu     sync.Mutex
	ch     Channel
	logger *zap.Logger
}

var _ messaging.Publisher = (*Publisher)(nil)

func NewPublisher(ch Channel, logger *zap.Logger) *Publisher {
	return &Publisher{ch: ch, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, topic messaging.Topic, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling message for %s: %w", topic, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, topic.Exchange, topic.RoutingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}

	p.logger.Debug("message published", zap.String("topic", topic.String()), zap.String("messageId", msg.MessageId))
	return nil
}
