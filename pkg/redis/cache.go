package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/threadline/marketplace-api/pkg/models"
)

const productCacheTTL = 15 * time.Minute

// CacheProduct stores a listing and its browse-list memberships. The short
// TTL keeps stale prices out of the browse views; writes to a listing also
// go through here to refresh the entry.
func CacheProduct(ctx context.Context, product *models.Product) error {
	client := RedisClient()
	defer client.Close()

	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID, err)
	}

	pipe := client.TxPipeline()

	productKey := fmt.Sprintf("product:%s", product.ID)
	pipe.Set(ctx, productKey, productJSON, productCacheTTL)

	categoryKey := fmt.Sprintf("category:%s", product.Category)
	pipe.LPush(ctx, categoryKey, product.ID)
	pipe.Expire(ctx, categoryKey, productCacheTTL)

	pipe.LPush(ctx, "products:recent", product.ID)
	pipe.LTrim(ctx, "products:recent", 0, 99)
	pipe.Expire(ctx, "products:recent", productCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute Redis pipeline for product %s: %w", product.ID, err)
	}
	return nil
}

// GetProductFromCache returns a cached listing or a cache-miss error from
// the client.
func GetProductFromCache(ctx context.Context, productID string) (*models.Product, error) {
	client := RedisClient()
	defer client.Close()

	productKey := fmt.Sprintf("product:%s", productID)
	productJSON, err := client.Get(ctx, productKey).Result()
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

// RemoveProductFromCache drops a listing and its list memberships, used when
// a seller deletes a listing or checkout changes its stock.
func RemoveProductFromCache(ctx context.Context, product *models.Product) error {
	client := RedisClient()
	defer client.Close()

	pipe := client.TxPipeline()

	productKey := fmt.Sprintf("product:%s", product.ID)
	pipe.Del(ctx, productKey)

	categoryKey := fmt.Sprintf("category:%s", product.Category)
	pipe.LRem(ctx, categoryKey, 0, product.ID)

	pipe.LRem(ctx, "products:recent", 0, product.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove product from Redis cache: %w", err)
	}
	return nil
}
