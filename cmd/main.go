package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/threadline/marketplace-api/internal/router"
	"github.com/threadline/marketplace-api/pkg/ai"
	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/mongo"
	"github.com/threadline/marketplace-api/pkg/redis"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	client := mongo.InitMongoDB()
	databaseName := global.GetDatabaseName()
	mongo.EnsureIndexesOnStartup(client.Database(databaseName))

	store := mongo.NewStore(client, databaseName)
	publisher := redis.NewPublisher(redis.RedisClient(), "marketplace-api")
	service := market.New(store).WithEvents(publisher)

	ai.InitializeAIService()

	router.Init(service, store)
	router.InitEngine()
	router.InitializeRoutes()

	port := global.GetEnvOrDefault("PORT", "8000")
	log.Printf("Server is running on port %s", port)

	if err := router.Router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
