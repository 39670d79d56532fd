// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/shared"
)

// wildcard subscribes a handler to every event type
const wildcard = "*"

// InMemoryEventBus implements shared.EventBus with synchronous in-process delivery.
// A failing or panicking handler is logged and does not stop the others.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers handler for the types it declares, or for all events
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler) {
	types := handler.EventTypes()
	if len(types) == 0 {
		types = []string{wildcard}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range types {
		if !slices.Contains(b.handlers[t], handler) {
			b.handlers[t] = append(b.handlers[t], handler)
		}
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", types))
}

// Unsubscribe removes handler from every type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t, hs := range b.handlers {
		b.handlers[t] = slices.DeleteFunc(hs, func(h shared.EventHandler) bool { return h == handler })
	}
}

// Publish delivers events in order to the handlers of their type, then to wildcard handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		for _, handler := range b.handlersFor(evt.EventType()) {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := slices.Clone(b.handlers[eventType])
	for _, h := range b.handlers[wildcard] {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, evt)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
