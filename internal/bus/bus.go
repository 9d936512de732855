package bus

import "context"

// HandlerFunc consumes one published message. Returning an error asks the
// transport to redeliver; delivery is at-least-once either way.
type HandlerFunc func(ctx context.Context, body []byte) error

// Bus is the topic-based pub/sub boundary between pipeline stages.
// Subscribers are registered once at startup; a handler registered on a
// topic receives each publish once per consumer channel.
type Bus interface {
	Publish(topic string, body []byte) error
	Subscribe(topic, channel string, h HandlerFunc) error
}
