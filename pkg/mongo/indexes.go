package mongo

import (
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/models"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

var requiredIndexes = []IndexConfig{
	// Users Collection Indexes
	{
		CollectionName: CollUsers,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email_unique"),
		},
	},

	// Products Collection Indexes
	// Index 1: Category filter on the browse view
	{
		CollectionName: CollProducts,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	},
	// Index 2: Active listings, newest first
	{
		CollectionName: CollProducts,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "isActive", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_active_created"),
		},
	},
	// Index 3: Seller dashboard listing lookup
	{
		CollectionName: CollProducts,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "sellerId", Value: 1}},
			Options: options.Index().SetName("idx_seller_products"),
		},
	},

	// Cart Items Collection Indexes
	// Index 4: One line per buyer and product; adds merge instead
	{
		CollectionName: CollCartItems,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "productId", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_cart_user_product_unique"),
		},
	},

	// Orders Collection Indexes
	// Index 5: Buyer order history
	{
		CollectionName: CollOrders,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "buyerId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_buyer_orders"),
		},
	},
	// Index 6: Seller sales view
	{
		CollectionName: CollOrders,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "sellerId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_seller_orders"),
		},
	},
	// Index 7: At most one pending/confirmed order per buyer and product.
	// The partial filter keeps cancelled and completed history out of the
	// constraint, so checkout races collapse into a duplicate key error.
	{
		CollectionName: CollOrders,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "buyerId", Value: 1},
				{Key: "productId", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("idx_one_active_order_unique").
				SetPartialFilterExpression(bson.D{
					{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{
						string(models.OrderStatusPending),
						string(models.OrderStatusConfirmed),
					}}}},
				}),
		},
	},

	// Comments Collection Indexes
	// Index 8: Newest comments per product
	{
		CollectionName: CollComments,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "productId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_product_comments"),
		},
	},

	// Inventory Logs Collection Indexes
	// Index 9: Stock history per product
	{
		CollectionName: CollStockLogs,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "productId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_stock_history"),
		},
	},
	// Index 10: Audit trail per order
	{
		CollectionName: CollStockLogs,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetName("idx_stock_order"),
		},
	},
}

func EnsureIndexes(db *mongo.Database) error {
	log.Println("Starting index creation...")

	for _, idxConfig := range requiredIndexes {
		collection := db.Collection(idxConfig.CollectionName)
		ctx, cancel := global.GetDefaultTimer()
		defer cancel()

		indexName, err := collection.Indexes().CreateOne(ctx, idxConfig.IndexModel)
		if err != nil {
			log.Printf("Error creating index on collection %s: %v",
				idxConfig.CollectionName, err)
			return err
		}

		log.Printf("✓ Created index '%s' on collection '%s'", indexName, idxConfig.CollectionName)
	}

	log.Println("All indexes created successfully!")
	return nil
}

func EnsureIndexesOnStartup(db *mongo.Database) {
	if err := EnsureIndexes(db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
}
