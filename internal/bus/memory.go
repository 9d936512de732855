package bus

import (
	"context"
	"log/slog"
	"sync"
)

// Memory is an in-process Bus for tests and BUS_MODE=memory runs. Each
// publish is dispatched asynchronously, once per subscriber, matching the
// per-channel delivery of the NSQ transport. Handler errors are logged,
// not redelivered.
type Memory struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	wg       sync.WaitGroup
}

func NewMemory() *Memory {
	return &Memory{handlers: make(map[string][]HandlerFunc)}
}

func (b *Memory) Publish(topic string, body []byte) error {
	b.mu.RLock()
	subs := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range subs {
		h := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := h(context.Background(), body); err != nil {
				slog.Error("memory bus handler failed", "topic", topic, "error", err)
			}
		}()
	}
	return nil
}

func (b *Memory) Subscribe(topic, channel string, h HandlerFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
	return nil
}

// Wait blocks until every dispatched handler has returned, including
// handlers triggered by publishes made from other handlers.
func (b *Memory) Wait() {
	b.wg.Wait()
}
