package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/marketplace-api/pkg/models"
)

func TestApplyPromoResolvesKnownCode(t *testing.T) {
	promo, err := ApplyPromo("ADJ3AK")
	require.NoError(t, err)
	assert.Equal(t, "ADJ3AK", promo.Code)
	assert.Equal(t, models.PromoTypePercent, promo.Type)
	assert.Equal(t, 40.0, promo.Amount)
}

func TestApplyPromoNormalizesInput(t *testing.T) {
	promo, err := ApplyPromo("  adj3ak ")
	require.NoError(t, err)
	assert.Equal(t, "ADJ3AK", promo.Code)
}

func TestApplyPromoUnknownCode(t *testing.T) {
	_, err := ApplyPromo("NOPE42")
	assert.ErrorIs(t, err, ErrUnknownPromoCode)
}

func TestComputeTotalsWithPercentPromo(t *testing.T) {
	items := []models.CartItem{
		{Price: 60, Quantity: 1},
		{Price: 20, Quantity: 2},
	}
	promo, err := ApplyPromo("ADJ3AK")
	require.NoError(t, err)

	totals := ComputeTotals(items, &promo)
	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 40.0, totals.Discount)
	assert.Equal(t, 5.0, totals.DeliveryFee)
	assert.Equal(t, 65.0, totals.GrandTotal)
}

func TestComputeTotalsWithoutPromo(t *testing.T) {
	items := []models.CartItem{{Price: 12.5, Quantity: 2}}
	totals := ComputeTotals(items, nil)
	assert.Equal(t, 25.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, 30.0, totals.GrandTotal)
}

func TestComputeTotalsFloorsAtZeroBeforeFee(t *testing.T) {
	items := []models.CartItem{{Price: 8, Quantity: 1}}
	promo := models.Promo{Code: "BIGFIX", Type: models.PromoTypeFixed, Amount: 50}

	totals := ComputeTotals(items, &promo)
	assert.Equal(t, 8.0, totals.Subtotal)
	assert.Equal(t, 50.0, totals.Discount)
	// The discounted goods total bottoms out at zero; the fee still applies.
	assert.Equal(t, DeliveryFee, totals.GrandTotal)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, nil)
	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, DeliveryFee, totals.GrandTotal)
}

func TestSubtotalIsOrderIndependent(t *testing.T) {
	a := []models.CartItem{{Price: 19.99, Quantity: 3}, {Price: 0.01, Quantity: 1}}
	b := []models.CartItem{{Price: 0.01, Quantity: 1}, {Price: 19.99, Quantity: 3}}
	assert.Equal(t, Subtotal(a), Subtotal(b))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 10.56, RoundCents(10.556))
	assert.Equal(t, 10.55, RoundCents(10.554))
	assert.Equal(t, 0.3, RoundCents(0.1+0.2))
}
