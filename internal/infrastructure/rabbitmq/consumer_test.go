package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snackapp/internal/messaging"
)

var errRetry = errors.New("retry me")

type settlement struct {
	acked    bool
	nacked   bool
	requeued bool
	rejected bool
}

// fakeAcknowledger records how each delivery tag was settled.
type fakeAcknowledger struct {
	mu      sync.Mutex
	settled map[uint64]settlement
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{settled: make(map[uint64]settlement)}
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settled[tag] = settlement{acked: true}
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settled[tag] = settlement{nacked: true, requeued: requeue}
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settled[tag] = settlement{rejected: true, requeued: requeue}
	return nil
}

func TestConsumer_SettlesByHandlerResult(t *testing.T) {
	acker := newFakeAcknowledger()
	handler := messaging.HandlerFunc(func(ctx context.Context, body []byte) error {
		switch string(body) {
		case "ok":
			return nil
		case "retry":
			return errRetry
		default:
			return errors.New("poison")
		}
	})
	shouldRequeue := func(err error) bool { return errors.Is(err, errRetry) }

	consumer := NewConsumer("test.queue", handler, shouldRequeue, 2, zap.NewNop())

	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: []byte("ok")}
	deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, Body: []byte("retry")}
	deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 3, Body: []byte("poison")}
	close(deliveries)

	err := consumer.Serve(context.Background(), deliveries)
	require.Error(t, err)

	assert.Equal(t, settlement{acked: true}, acker.settled[1])
	assert.Equal(t, settlement{nacked: true, requeued: true}, acker.settled[2])
	assert.Equal(t, settlement{rejected: true}, acker.settled[3])
}

func TestConsumer_StopsOnContextCancel(t *testing.T) {
	consumer := NewConsumer("test.queue", messaging.HandlerFunc(func(ctx context.Context, body []byte) error {
		return nil
	}), func(error) bool { return false }, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	deliveries := make(chan amqp.Delivery)

	done := make(chan error, 1)
	go func() { done <- consumer.Serve(ctx, deliveries) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer_LimitsConcurrency(t *testing.T) {
	acker := newFakeAcknowledger()

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	handler := messaging.HandlerFunc(func(ctx context.Context, body []byte) error {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	})

	consumer := NewConsumer("test.queue", handler, func(error) bool { return false }, 2, zap.NewNop())

	deliveries := make(chan amqp.Delivery, 10)
	for i := uint64(1); i <= 10; i++ {
		deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: i}
	}
	close(deliveries)

	_ = consumer.Serve(context.Background(), deliveries)

	assert.LessOrEqual(t, maxInFlight, 2)
	assert.Len(t, acker.settled, 10)
}
