package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryBus delivers envelopes in-process, synchronously, to every
// subscribed group of a topic. It backs the cross-service tests and local
// single-process development; the semantics mirror the broker: one delivery
// per group, handler errors logged and dropped.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[string]map[string]Handler // topic -> group -> handler
	logger *zap.Logger
}

func NewMemoryBus(logger *zap.Logger) *MemoryBus {
	return &MemoryBus{
		subs:   make(map[string]map[string]Handler),
		logger: logger.Named("memory_bus"),
	}
}

// Subscribe registers the group's handler for a topic. A second Subscribe
// with the same group replaces the handler.
func (b *MemoryBus) Subscribe(topic, group string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]Handler)
	}
	b.subs[topic][group] = handler
}

// Publish delivers the envelope to every group subscribed to the topic.
// The partition key is irrelevant in-process.
func (b *MemoryBus) Publish(topic, _ string, env Envelope) {
	b.mu.RLock()
	groups := make(map[string]Handler, len(b.subs[topic]))
	for g, h := range b.subs[topic] {
		groups[g] = h
	}
	b.mu.RUnlock()

	for group, handler := range groups {
		if err := handler(context.Background(), env); err != nil {
			b.logger.Error("handler failed",
				zap.Error(err),
				zap.String("topic", topic),
				zap.String("group", group),
				zap.String("kind", env.Kind),
			)
		}
	}
}
