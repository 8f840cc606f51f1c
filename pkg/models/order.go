package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed. A cancelled
// order can still be revived, but revival replaces the document rather than
// transitioning it.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsActive reports whether the order still occupies the buyer's single
// active slot for its product.
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// Order is the durable purchase record shared by the buyer and seller views.
// Price, title and imageUrl are snapshots taken at placement time. Orders are
// never physically deleted.
type Order struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	BuyerID   string      `json:"buyerId" bson:"buyerId"`
	SellerID  string      `json:"sellerId" bson:"sellerId"`
	ProductID string      `json:"productId" bson:"productId"`
	Title     string      `json:"title" bson:"title"`
	ImageURL  string      `json:"imageUrl" bson:"imageUrl"`
	Price     float64     `json:"price" bson:"price"`
	Quantity  int         `json:"quantity" bson:"quantity"`
	Status    OrderStatus `json:"status" bson:"status"`
	CreatedAt time.Time   `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updatedAt"`
}

// NewOrder builds a pending order from a product snapshot.
func NewOrder(buyerID string, p *Product, quantity int) *Order {
	now := time.Now()
	return &Order{
		ID:        uuid.NewString(),
		BuyerID:   buyerID,
		SellerID:  p.SellerID,
		ProductID: p.ID,
		Title:     p.Title,
		ImageURL:  p.ImageURL,
		Price:     p.Price,
		Quantity:  quantity,
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OrderFromCartItem converts a staged cart line into a pending order.
func OrderFromCartItem(ci *CartItem) *Order {
	now := time.Now()
	return &Order{
		ID:        uuid.NewString(),
		BuyerID:   ci.UserID,
		SellerID:  ci.SellerID,
		ProductID: ci.ProductID,
		Title:     ci.Title,
		ImageURL:  ci.ImageURL,
		Price:     ci.Price,
		Quantity:  ci.Quantity,
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanBeCancelled reports whether the buyer may still cancel.
func (o *Order) CanBeCancelled() bool {
	return o.Status.IsActive()
}

// Revive resets a cancelled order back to pending with fresh snapshots,
// keeping the same document identity.
func (o *Order) Revive(p *Product, quantity int) {
	now := time.Now()
	o.Status = OrderStatusPending
	o.Quantity = quantity
	o.Price = p.Price
	o.Title = p.Title
	o.ImageURL = p.ImageURL
	o.CreatedAt = now
	o.UpdatedAt = now
}

type PlaceOrderRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}
