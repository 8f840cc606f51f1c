package market

import (
	"context"
	"log"
)

// Service implements the buyer and seller transaction flows on top of a
// Store. It owns all validation and ordering rules; the store only persists.
type Service struct {
	store  Store
	events EventPublisher
}

// New constructs a Service over the given store. Events are off until
// WithEvents is called.
func New(store Store) *Service {
	return &Service{store: store}
}

// WithEvents attaches a publisher for mutation fanout and returns the
// service for chaining.
func (s *Service) WithEvents(pub EventPublisher) *Service {
	s.events = pub
	return s
}

// publish fans an event out if a publisher is attached. Event delivery is
// best effort and never affects the outcome of the operation that emitted it.
func (s *Service) publish(ctx context.Context, eventType string, payload any) {
	if s.events == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event publish panic for %s: %v", eventType, r)
		}
	}()
	s.events.Publish(ctx, eventType, payload)
}
