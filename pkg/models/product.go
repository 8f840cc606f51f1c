package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/threadline/marketplace-api/pkg/global"
)

// Product is a seller's listing in the catalog. The transaction core only
// reads price, stock, isActive and the snapshot fields; listings are created
// and maintained through the seller endpoints.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Category    string    `json:"category" bson:"category"`
	SubCategory string    `json:"subCategory" bson:"subCategory"`
	ImageURL    string    `json:"imageUrl" bson:"imageUrl"`
	SellerID    string    `json:"sellerId" bson:"sellerId"`
	SellerName  string    `json:"sellerName" bson:"sellerName"`
	Stock       int       `json:"stock" bson:"stock"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
	RatingAvg   float64   `json:"ratingAvg" bson:"ratingAvg"`
	RatingCount int       `json:"ratingCount" bson:"ratingCount"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updatedAt"`
}

// IsInStock reports whether the listing can currently be purchased. The
// producer keeps isActive aligned with stock, but readers must not rely on it.
func (p *Product) IsInStock() bool {
	return p.IsActive && p.Stock > 0
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

type CreateProductRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=200"`
	Description string  `json:"description" binding:"required,max=2000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category" binding:"required"`
	SubCategory string  `json:"subCategory"`
	ImageURL    string  `json:"imageUrl" binding:"required,url"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// ToProduct builds a catalog document from a create request. A listing with
// zero stock starts inactive; the seller flips it by restocking.
func (req *CreateProductRequest) ToProduct(sellerID, sellerName string) *Product {
	now := time.Now()
	return &Product{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Currency:    global.GetEnvOrDefault("MARKET_CURRENCY", "USD"),
		Category:    strings.ToLower(req.Category),
		SubCategory: strings.ToLower(req.SubCategory),
		ImageURL:    req.ImageURL,
		SellerID:    sellerID,
		SellerName:  sellerName,
		Stock:       req.Stock,
		IsActive:    req.Stock > 0,
		RatingAvg:   0,
		RatingCount: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type UpdateProductRequest struct {
	Price *float64 `json:"price" binding:"omitempty,gt=0"`
	Stock *int     `json:"stock" binding:"omitempty,gte=0"`
}
