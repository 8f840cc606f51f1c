package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/threadline/marketplace-api/pkg/market"
)

// RunCheckoutBatch applies a checkout in one multi-document transaction.
// Stock guards use a conditional update, so a concurrent sale that drains a
// product aborts the whole batch with ErrInsufficientStock. The partial
// unique index on orders turns a concurrent duplicate purchase into
// ErrActiveOrderExists.
func (s *Store) RunCheckoutBatch(ctx context.Context, batch market.CheckoutBatch) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		for _, d := range batch.Decrements {
			if err := s.decrementStock(ctx, d); err != nil {
				return nil, err
			}
		}

		if len(batch.Orders) > 0 {
			docs := make([]any, 0, len(batch.Orders))
			for _, o := range batch.Orders {
				docs = append(docs, o)
			}
			if _, err := s.orders().InsertMany(ctx, docs); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, market.ErrActiveOrderExists
				}
				return nil, err
			}
		}

		if batch.ReviveOrder != nil {
			result, err := s.orders().ReplaceOne(ctx,
				bson.D{{Key: "_id", Value: batch.ReviveOrder.ID}},
				batch.ReviveOrder,
			)
			if err != nil {
				return nil, err
			}
			if result.MatchedCount == 0 {
				return nil, market.ErrOrderNotFound
			}
		}

		if len(batch.DeleteCartItemIDs) > 0 {
			_, err := s.cartItems().DeleteMany(ctx, bson.D{
				{Key: "_id", Value: bson.D{{Key: "$in", Value: batch.DeleteCartItemIDs}}},
				{Key: "userId", Value: batch.BuyerID},
			})
			if err != nil {
				return nil, err
			}
		}

		if len(batch.StockLogs) > 0 {
			docs := make([]any, 0, len(batch.StockLogs))
			for _, sc := range batch.StockLogs {
				docs = append(docs, sc)
			}
			if _, err := s.stockLogs().InsertMany(ctx, docs); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// decrementStock takes quantity off a product only if it can cover it, then
// re-derives isActive from the remaining stock.
func (s *Store) decrementStock(ctx context.Context, d market.StockDecrement) error {
	result, err := s.products().UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: d.ProductID},
			{Key: "stock", Value: bson.D{{Key: "$gte", Value: d.Quantity}}},
		},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: -d.Quantity}}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing product from one that cannot cover the line.
		count, err := s.products().CountDocuments(ctx, bson.D{{Key: "_id", Value: d.ProductID}})
		if err != nil {
			return err
		}
		if count == 0 {
			return market.ErrProductNotFound
		}
		return market.ErrInsufficientStock
	}

	_, err = s.products().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: d.ProductID}},
		mongo.Pipeline{
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "isActive", Value: bson.D{{Key: "$gt", Value: bson.A{"$stock", 0}}}},
				{Key: "updatedAt", Value: "$$NOW"},
			}}},
		},
	)
	return err
}
