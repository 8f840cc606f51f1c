package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a buyer-owned staged purchase line. Price is a snapshot taken
// when the item is added and is not re-synced if the listing changes.
type CartItem struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productId" bson:"productId"`
	SellerID  string    `json:"sellerId" bson:"sellerId"`
	Title     string    `json:"title" bson:"title"`
	ImageURL  string    `json:"imageUrl" bson:"imageUrl"`
	Price     float64   `json:"price" bson:"price"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// NewCartItem snapshots a product into a cart line for the given buyer.
func NewCartItem(userID string, p *Product, quantity int) *CartItem {
	now := time.Now()
	return &CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: p.ID,
		SellerID:  p.SellerID,
		Title:     p.Title,
		ImageURL:  p.ImageURL,
		Price:     p.Price,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (ci *CartItem) Subtotal() float64 {
	return ci.Price * float64(ci.Quantity)
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}
