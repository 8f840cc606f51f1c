package redis

import (
	"context"
	"log"

	redisclient "github.com/redis/go-redis/v9"

	"github.com/threadline/marketplace-api/pkg/events"
)

// Publisher fans marketplace events out over Redis Pub/Sub. It satisfies
// market.EventPublisher; delivery is fire-and-forget.
type Publisher struct {
	client   *redisclient.Client
	producer string
}

// NewPublisher wraps a client. producer goes into every envelope so
// consumers can tell instances apart.
func NewPublisher(client *redisclient.Client, producer string) *Publisher {
	return &Publisher{client: client, producer: producer}
}

// Publish wraps the payload in an envelope and pushes it to the channel for
// its event type. Failures are logged, never returned: a down Redis must not
// fail a checkout.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) {
	envelope, err := events.NewEnvelope(eventType, p.producer, payload)
	if err != nil {
		log.Printf("failed to build event envelope for %s: %v", eventType, err)
		return
	}

	channel := events.ChannelFor(eventType)
	if err := p.client.Publish(ctx, channel, events.MustMarshal(envelope)).Err(); err != nil {
		log.Printf("failed to publish %s to %s: %v", eventType, channel, err)
	}
}
