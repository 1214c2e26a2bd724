package adapter

import (
	"context"
	"time"
)

// Message is one delivery from a channel. Handle is the broker's delivery
// handle, valid until the visibility window expires.
type Message struct {
	ID     string
	Body   []byte
	Handle string
}

// Queue is an at-least-once message channel consumer. Receive blocks for at
// most wait and may return fewer than max messages (or none). A message that
// is not deleted becomes visible again after the broker's visibility window,
// which is the only retry mechanism the workers rely on.
type Queue interface {
	Receive(ctx context.Context, max int, wait time.Duration) ([]Message, error)
	Delete(ctx context.Context, handle string) error
}

// Publisher sends an event body to the topic it was constructed for.
type Publisher interface {
	Publish(ctx context.Context, body []byte, subject string) error
}
