package models

import (
	"time"

	"github.com/google/uuid"
)

// StockChange records a stock movement on a listing for audit purposes.
// Checkout writes one per decremented product inside the same batch; seller
// restocks write one per edit.
type StockChange struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ProductID   string    `bson:"productId" json:"productId"`
	OrderID     string    `bson:"orderId,omitempty" json:"orderId,omitempty"`
	ChangeType  string    `bson:"changeType" json:"changeType"` // sale | restock | adjustment
	Delta       int       `bson:"delta" json:"delta"`           // negative for sales
	PerformedBy string    `bson:"performedBy" json:"performedBy"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
}

const (
	StockChangeSale       = "sale"
	StockChangeRestock    = "restock"
	StockChangeAdjustment = "adjustment"
)

// NewStockChange builds an audit entry; delta follows the sign of the
// movement (sales are negative).
func NewStockChange(productID, orderID, changeType string, delta int, performedBy string) *StockChange {
	return &StockChange{
		ID:          uuid.NewString(),
		ProductID:   productID,
		OrderID:     orderID,
		ChangeType:  changeType,
		Delta:       delta,
		PerformedBy: performedBy,
		CreatedAt:   time.Now(),
	}
}

// IsDecrease returns true if the movement removed stock
func (sc *StockChange) IsDecrease() bool {
	return sc.Delta < 0
}
