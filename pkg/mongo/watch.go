package mongo

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/models"
)

// Change streams back the live cart and order subscriptions, which requires
// a replica set just like the checkout transaction does.

var watchPipeline = bson.A{
	bson.D{{Key: "$match", Value: bson.D{
		{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{
			"insert", "update", "replace", "delete",
		}}}},
	}}},
}

type cartChange struct {
	OperationType string          `bson:"operationType"`
	FullDocument  models.CartItem `bson:"fullDocument"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

type orderChange struct {
	OperationType string       `bson:"operationType"`
	FullDocument  models.Order `bson:"fullDocument"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

func changeType(op string) market.ChangeType {
	switch op {
	case "insert":
		return market.ChangeAdded
	case "delete":
		return market.ChangeRemoved
	}
	return market.ChangeModified
}

// WatchCart reads the current cart, then tails the collection's change
// stream. Delete events carry no document, so ownership of a removed line is
// resolved against the ids seen so far on this subscription.
func (s *Store) WatchCart(ctx context.Context, userID string) (*market.CartSubscription, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.cartItems().Watch(streamCtx, watchPipeline, opts)
	if err != nil {
		cancel()
		return nil, err
	}

	initial, err := s.CartItems(ctx, userID)
	if err != nil {
		cancel()
		stream.Close(context.Background())
		return nil, err
	}

	known := make(map[string]bool, len(initial))
	for _, it := range initial {
		known[it.ID] = true
	}

	updates := make(chan market.CartEvent, 64)
	go func() {
		defer close(updates)
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			var change cartChange
			if err := stream.Decode(&change); err != nil {
				log.Printf("cart change stream decode: %v", err)
				continue
			}

			ev := market.CartEvent{Type: changeType(change.OperationType), Item: change.FullDocument}
			if ev.Type == market.ChangeRemoved {
				if !known[change.DocumentKey.ID] {
					continue
				}
				delete(known, change.DocumentKey.ID)
				ev.Item = models.CartItem{ID: change.DocumentKey.ID, UserID: userID}
			} else {
				if change.FullDocument.UserID != userID {
					continue
				}
				known[change.FullDocument.ID] = true
			}

			select {
			case updates <- ev:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return &market.CartSubscription{Initial: initial, Updates: updates, Cancel: cancel}, nil
}

// WatchOrders tails the orders collection for one side of the marketplace.
// Orders are never deleted, so every event carries a full document.
func (s *Store) WatchOrders(ctx context.Context, party market.OrderParty, id string) (*market.OrderSubscription, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.orders().Watch(streamCtx, watchPipeline, opts)
	if err != nil {
		cancel()
		return nil, err
	}

	initial, err := s.ListOrders(ctx, party, id)
	if err != nil {
		cancel()
		stream.Close(context.Background())
		return nil, err
	}

	updates := make(chan market.OrderEvent, 64)
	go func() {
		defer close(updates)
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			var change orderChange
			if err := stream.Decode(&change); err != nil {
				log.Printf("order change stream decode: %v", err)
				continue
			}
			if change.OperationType == "delete" {
				continue
			}

			order := change.FullDocument
			if party == market.PartySeller {
				if order.SellerID != id {
					continue
				}
			} else if order.BuyerID != id {
				continue
			}

			ev := market.OrderEvent{Type: changeType(change.OperationType), Order: order}
			select {
			case updates <- ev:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return &market.OrderSubscription{Initial: initial, Updates: updates, Cancel: cancel}, nil
}
