package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/market"
	"github.com/threadline/marketplace-api/pkg/mongo"
)

var Router *gin.Engine

// Shared by handlers; set once at startup through Init.
var (
	service *market.Service
	store   *mongo.Store
)

// Init wires the handlers to the transaction core and its Mongo store.
func Init(svc *market.Service, st *mongo.Store) {
	service = svc
	store = st
}

func InitEngine() {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	Router = gin.Default()

	allowedOrigins := strings.Split(
		global.GetEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:19006"), ",")

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-User-ID", "X-User-Name"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func InitializeRoutes() {
	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", RegisterAccount)
		}

		api.GET("/me", SessionMiddleware(), GetAccount)

		products := api.Group("/products")
		{
			products.GET("/", ListProducts)
			products.GET("/:id", GetProduct)
			products.GET("/:id/comments", ListProductComments)
			products.POST("/:id/comments", SessionMiddleware(), AddProductComment)
			products.GET("/:id/active-order", SessionMiddleware(), GetActiveOrderForProduct)
		}

		cart := api.Group("/cart")
		cart.Use(SessionMiddleware())
		{
			cart.GET("/", GetCartItems)
			cart.POST("/items", AddCartItem)
			cart.PUT("/items/:itemId", UpdateCartItemQuantity)
			cart.DELETE("/items/:itemId", RemoveCartItem)
			cart.GET("/stream", StreamCart)
		}

		checkout := api.Group("/checkout")
		checkout.Use(SessionMiddleware())
		{
			checkout.GET("/preview", PreviewCheckout)
			checkout.POST("/", CheckoutCart)
			checkout.POST("/direct", PlaceDirectOrder)
			checkout.POST("/promo", ValidatePromoCode)
		}

		orders := api.Group("/orders")
		orders.Use(SessionMiddleware())
		{
			orders.GET("/", ListBuyerOrders)
			orders.GET("/stream", StreamBuyerOrders)
			orders.GET("/:id", GetOrder)
			orders.POST("/:id/cancel", CancelOrder)
		}

		seller := api.Group("/seller")
		seller.Use(SessionMiddleware())
		{
			seller.GET("/products", ListSellerProducts)
			seller.POST("/products", CreateSellerProduct)
			seller.PUT("/products/:id", UpdateSellerProduct)
			seller.DELETE("/products/:id", DeleteSellerProduct)

			seller.GET("/orders", ListSellerOrders)
			seller.GET("/orders/stream", StreamSellerOrders)
			seller.PUT("/orders/:id/status", UpdateSellerOrderStatus)

			seller.GET("/reports/sales", GenerateSellerSalesReport)
		}
	}
}
