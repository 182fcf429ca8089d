package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"snackapp/internal/messaging"
)

const handleTimeout = 30 * time.Second

// Acknowledger is the part of a delivery the consumer settles.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
	Reject(requeue bool) error
}

// Consumer fans deliveries from one queue out to at most workers concurrent
// handler calls and settles each one according to the handler's result.
type Consumer struct {
	queue         string
	handler       messaging.Handler
	shouldRequeue func(error) bool
	workers       int
	logger        *zap.Logger
}

func NewConsumer(queue string, handler messaging.Handler, shouldRequeue func(error) bool, workers int, logger *zap.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		queue:         queue,
		handler:       handler,
		shouldRequeue: shouldRequeue,
		workers:       workers,
		logger:        logger.With(zap.String("queue", queue)),
	}
}

// Run consumes from ch until ctx is done or the delivery channel closes. It
// waits for in-flight handlers before returning.
func (c *Consumer) Run(ctx context.Context, ch *amqp.Channel, prefetch int) error {
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("setting qos on %s: %w", c.queue, err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consuming %s: %w", c.queue, err)
	}

	c.logger.Info("consumer started", zap.Int("workers", c.workers))
	return c.Serve(ctx, deliveries)
}

func (c *Consumer) Serve(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	var g errgroup.Group
	g.SetLimit(c.workers)

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case d, ok := <-deliveries:
			if !ok {
				runErr = errors.New("delivery channel closed")
				break loop
			}
			g.Go(func() error {
				c.process(ctx, d.MessageId, d.Body, d)
				return nil
			})
		}
	}

	_ = g.Wait()
	c.logger.Info("consumer stopped")
	return runErr
}

func (c *Consumer) process(ctx context.Context, messageID string, body []byte, ack Acknowledger) {
	logger := c.logger.With(zap.String("messageId", messageID))

	handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
	defer cancel()

	err := c.handler.Handle(handleCtx, body)
	if err == nil {
		if ackErr := ack.Ack(false); ackErr != nil {
			logger.Error("failed to ack message", zap.Error(ackErr))
		}
		return
	}

	if c.shouldRequeue(err) {
		logger.Warn("message handling failed, requeueing", zap.Error(err))
		if nackErr := ack.Nack(false, true); nackErr != nil {
			logger.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}

	logger.Error("message rejected", zap.Error(err))
	if rejectErr := ack.Reject(false); rejectErr != nil {
		logger.Error("failed to reject message", zap.Error(rejectErr))
	}
}
