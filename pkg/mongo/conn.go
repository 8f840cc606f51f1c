package mongo

import (
	"log"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/marketplace-api/pkg/global"
)

// Collection names. Field names line up with the bson tags in pkg/models.
const (
	CollProducts  = "products"
	CollCartItems = "cart_items"
	CollOrders    = "orders"
	CollUsers     = "users"
	CollComments  = "comments"
	CollStockLogs = "inventory_logs"
)

func GetMongoClient() *mongo.Client {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	clientOptions := options.Client().ApplyURI(global.GetMongoURI()).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(clientOptions)
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}
	return client
}

// InitMongoDB connects, verifies the server is reachable and returns the
// client. Startup fails hard on a bad connection.
func InitMongoDB() *mongo.Client {
	client := GetMongoClient()
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB successfully")
	return client
}
