// Package messaging holds the broker-agnostic types shared by publishers and
// the code that emits events.
package messaging

import "context"

// Topic addresses an outbound event. An empty Exchange means the broker's
// default exchange, where RoutingKey is the queue name.
type Topic struct {
	Exchange   string
	RoutingKey string
}

func (t Topic) String() string {
	if t.Exchange == "" {
		return t.RoutingKey
	}
	return t.Exchange + "/" + t.RoutingKey
}

// Publisher is fire-and-forget from the caller's side; delivery guarantees
// belong to the implementation.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, payload any) error
}

// Handler processes one inbound message body.
type Handler interface {
	Handle(ctx context.Context, body []byte) error
}

type HandlerFunc func(ctx context.Context, body []byte) error

func (f HandlerFunc) Handle(ctx context.Context, body []byte) error {
	return f(ctx, body)
}
