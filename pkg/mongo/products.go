package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/models"
)

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if err != nil {
		return nil, notFound(err, market.ErrProductNotFound)
	}
	return &product, nil
}

func (s *Store) ListActiveProducts(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.D{{Key: "isActive", Value: true}}
	if category != "" {
		filter = append(filter, bson.E{Key: "category", Value: category})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.products().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) ListProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.products().Find(ctx, bson.D{{Key: "sellerId", Value: sellerID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) InsertProduct(ctx context.Context, p *models.Product) error {
	_, err := s.products().InsertOne(ctx, p)
	return err
}

func (s *Store) UpdateProductListing(ctx context.Context, sellerID, productID string, price *float64, stock *int, updatedAt time.Time) (*models.Product, error) {
	set := bson.D{{Key: "updatedAt", Value: updatedAt}}
	if price != nil {
		set = append(set, bson.E{Key: "price", Value: *price})
	}
	if stock != nil {
		set = append(set, bson.E{Key: "stock", Value: *stock})
		set = append(set, bson.E{Key: "isActive", Value: *stock > 0})
	}

	filter := bson.D{
		{Key: "_id", Value: productID},
		{Key: "sellerId", Value: sellerID},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := s.products().FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&updated)
	if err != nil {
		return nil, notFound(err, market.ErrProductNotFound)
	}
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	result, err := s.products().DeleteOne(ctx, bson.D{
		{Key: "_id", Value: productID},
		{Key: "sellerId", Value: sellerID},
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return market.ErrProductNotFound
	}
	return nil
}
