package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/models"
)

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.orders().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order)
	if err != nil {
		return nil, notFound(err, market.ErrOrderNotFound)
	}
	return &order, nil
}

func (s *Store) FindOrderByStatus(ctx context.Context, buyerID, productID string, statuses ...models.OrderStatus) (*models.Order, error) {
	statusValues := bson.A{}
	for _, st := range statuses {
		statusValues = append(statusValues, string(st))
	}

	filter := bson.D{
		{Key: "buyerId", Value: buyerID},
		{Key: "productId", Value: productID},
		{Key: "status", Value: bson.D{{Key: "$in", Value: statusValues}}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var order models.Order
	err := s.orders().FindOne(ctx, filter, opts).Decode(&order)
	if err != nil {
		return nil, notFound(err, market.ErrOrderNotFound)
	}
	return &order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, updatedAt time.Time) error {
	result, err := s.orders().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: orderID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "updatedAt", Value: updatedAt},
		}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return market.ErrOrderNotFound
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, party market.OrderParty, id string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders().Find(ctx, bson.D{{Key: string(party), Value: id}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
