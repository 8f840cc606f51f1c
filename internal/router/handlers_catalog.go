package router

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/global"
	"github.com/threadline/marketplace-api/pkg/models"
	"github.com/threadline/marketplace-api/pkg/redis"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK"}))
}

func ListProducts(c *gin.Context) {
	products, err := service.Products(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

// GetProduct serves a listing through the Redis read-through cache.
func GetProduct(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if product, err := redis.GetProductFromCache(ctx, id); err == nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, global.SuccessResponse(product))
		return
	}

	product, err := service.Product(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if cacheErr := redis.CacheProduct(ctx, product); cacheErr != nil {
		log.Printf("Warning: Failed to cache product in Redis: %v", cacheErr)
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func ListProductComments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	comments, err := service.Comments(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(comments))
}

func AddProductComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := service.AddComment(c.Request.Context(), currentSession(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(comment))
}

func GetActiveOrderForProduct(c *gin.Context) {
	order, err := service.ActiveOrder(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func ListSellerProducts(c *gin.Context) {
	products, err := service.SellerProducts(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func CreateSellerProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	product, err := service.CreateListing(ctx, currentSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if cacheErr := redis.CacheProduct(ctx, product); cacheErr != nil {
		log.Printf("Warning: Failed to cache product in Redis: %v", cacheErr)
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

func UpdateSellerProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	product, err := service.UpdateListing(ctx, currentSession(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Refresh the cache so the browse views pick up the new price or stock.
	if cacheErr := redis.CacheProduct(ctx, product); cacheErr != nil {
		log.Printf("Warning: Failed to cache product in Redis: %v", cacheErr)
	}

	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func DeleteSellerProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	product, err := service.Product(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := service.DeleteListing(ctx, currentSession(c), id); err != nil {
		respondError(c, err)
		return
	}

	if cacheErr := redis.RemoveProductFromCache(ctx, product); cacheErr != nil {
		log.Printf("Warning: Failed to evict product from Redis: %v", cacheErr)
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"deleted": id}))
}
