package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/models"
)

func (s *Store) InsertUser(ctx context.Context, u *models.User) error {
	_, err := s.users().InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return market.ErrEmailExists
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err != nil {
		return nil, notFound(err, market.ErrUserNotFound)
	}
	return &user, nil
}

func (s *Store) InsertStockChange(ctx context.Context, sc *models.StockChange) error {
	_, err := s.stockLogs().InsertOne(ctx, sc)
	return err
}

func (s *Store) InsertComment(ctx context.Context, c *models.Comment) error {
	_, err := s.comments().InsertOne(ctx, c)
	return err
}

func (s *Store) ListComments(ctx context.Context, productID string, limit int) ([]models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.comments().Find(ctx, bson.D{{Key: "productId", Value: productID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
