package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/models"
)

func (s *Store) CartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.cartItems().Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) FindCartItemByProduct(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := s.cartItems().FindOne(ctx, bson.D{
		{Key: "userId", Value: userID},
		{Key: "productId", Value: productID},
	}).Decode(&item)
	if err != nil {
		return nil, notFound(err, market.ErrCartItemNotFound)
	}
	return &item, nil
}

func (s *Store) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	_, err := s.cartItems().InsertOne(ctx, item)
	return err
}

func (s *Store) UpdateCartQuantity(ctx context.Context, userID, itemID string, quantity int, updatedAt time.Time) error {
	result, err := s.cartItems().UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: itemID},
			{Key: "userId", Value: userID},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: quantity},
			{Key: "updatedAt", Value: updatedAt},
		}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return market.ErrCartItemNotFound
	}
	return nil
}

func (s *Store) DeleteCartItem(ctx context.Context, userID, itemID string) error {
	result, err := s.cartItems().DeleteOne(ctx, bson.D{
		{Key: "_id", Value: itemID},
		{Key: "userId", Value: userID},
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return market.ErrCartItemNotFound
	}
	return nil
}
