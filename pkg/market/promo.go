package market

import (
	"math"
	"strings"

	"github.com/threadline/marketplace-api/pkg/models"
)

// DeliveryFee is flat and charged after the discount on every checkout.
const DeliveryFee = 5.00

// Promos is the static promo table. Codes are stored uppercase; lookup
// normalizes input the same way.
var Promos = map[string]models.Promo{
	"ADJ3AK": {Code: "ADJ3AK", Type: models.PromoTypePercent, Amount: 40},
}

// ApplyPromo resolves a code against the static table. The engine is
// stateless and idempotent; whether a promo is already active is the
// caller's concern.
func ApplyPromo(code string) (models.Promo, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	promo, ok := Promos[normalized]
	if !ok {
		return models.Promo{}, ErrUnknownPromoCode
	}
	return promo, nil
}

// Discount computes the raw reduction for a subtotal. A fixed promo may
// exceed the subtotal; the floor is applied to the post-discount total in
// ComputeTotals, not here.
func Discount(subtotal float64, promo *models.Promo) float64 {
	if promo == nil {
		return 0
	}
	switch promo.Type {
	case models.PromoTypePercent:
		return RoundCents(subtotal * promo.Amount / 100)
	case models.PromoTypeFixed:
		return RoundCents(promo.Amount)
	}
	return 0
}

// Subtotal sums price x quantity across items, order-independent.
func Subtotal(items []models.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return RoundCents(sum)
}

// ComputeTotals produces the checkout breakdown. The discounted total is
// floored at zero before the delivery fee is added.
func ComputeTotals(items []models.CartItem, promo *models.Promo) models.Totals {
	subtotal := Subtotal(items)
	discount := Discount(subtotal, promo)
	afterDiscount := math.Max(0, subtotal-discount)
	return models.Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: DeliveryFee,
		GrandTotal:  RoundCents(afterDiscount + DeliveryFee),
	}
}

// RoundCents rounds a currency amount to two decimal places. All money
// arithmetic in the core goes through this before being persisted or shown.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
