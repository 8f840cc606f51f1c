package models

// PromoType selects how a promo amount applies to a subtotal.
type PromoType string

const (
	PromoTypePercent PromoType = "percent"
	PromoTypeFixed   PromoType = "fixed"
)

// Promo is a static discount definition keyed by its uppercase code.
type Promo struct {
	Code   string    `json:"code"`
	Type   PromoType `json:"type"`
	Amount float64   `json:"amount"`
}

// Totals is the financial breakdown presented at checkout. Delivery fee is
// flat and applied after the discount.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	GrandTotal  float64 `json:"grandTotal"`
}

type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}
