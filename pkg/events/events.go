package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Pub/sub channels for mutation fanout. Order and cart traffic are kept on
// separate channels so dashboard consumers can subscribe selectively.
const (
	ChannelOrders = "market:events:orders"
	ChannelCart   = "market:events:cart"
)

// Event types carried in Envelope.EventType.
const (
	TypeCartItemAdded   = "cart.item_added"
	TypeCartItemUpdated = "cart.item_updated"
	TypeCartItemRemoved = "cart.item_removed"

	TypeOrderPlaced        = "order.placed"
	TypeOrderRevived       = "order.revived"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderCancelled     = "order.cancelled"

	TypeCheckoutCompleted = "checkout.completed"
	TypeStockChanged      = "product.stock_changed"
)

// Envelope is the wire format for every published event. Payload stays raw
// so consumers can route on EventType before decoding.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload for publishing.
func NewEnvelope(eventType, producer string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   producer,
		Payload:    raw,
	}, nil
}

// ChannelFor maps an event type to its pub/sub channel.
func ChannelFor(eventType string) string {
	switch eventType {
	case TypeCartItemAdded, TypeCartItemUpdated, TypeCartItemRemoved:
		return ChannelCart
	}
	return ChannelOrders
}

// MustMarshal is for payloads built from our own types, where a marshal
// failure is a programming error.
func MustMarshal(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
