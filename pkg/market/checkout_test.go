package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/marketplace-api/pkg/models"
)

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newTestMarket(t)
	_, err := svc.CheckoutCart(context.Background(), buyerSess, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutConvertsEveryLine(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 30, 5)
	seedListing(store, "p2", 20, 5)
	seedListing(store, "p3", 10, 5)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		_, err := svc.AddToCart(ctx, buyerSess, id, 1)
		require.NoError(t, err)
	}

	result, err := svc.CheckoutCart(ctx, buyerSess, "")
	require.NoError(t, err)
	require.Len(t, result.Orders, 3)
	for _, o := range result.Orders {
		assert.Equal(t, models.OrderStatusPending, o.Status)
		assert.Equal(t, buyerSess.UID, o.BuyerID)
	}
	assert.Equal(t, 60.0, result.Totals.Subtotal)
	assert.Equal(t, 65.0, result.Totals.GrandTotal)

	// Cart is cleared and stock decremented in the same batch.
	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Empty(t, items)
	for _, id := range []string{"p1", "p2", "p3"} {
		p, err := store.GetProduct(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 4, p.Stock)
	}

	orders, err := svc.BuyerOrders(ctx, buyerSess)
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	logs := store.StockLogs()
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Equal(t, models.StockChangeSale, l.ChangeType)
		assert.Equal(t, -1, l.Delta)
	}
}

func TestCheckoutAppliesPromo(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 100, 5)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	result, err := svc.CheckoutCart(ctx, buyerSess, "adj3ak")
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.Totals.Discount)
	assert.Equal(t, 65.0, result.Totals.GrandTotal)
}

func TestCheckoutRejectsUnknownPromo(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 100, 5)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	_, err = svc.CheckoutCart(ctx, buyerSess, "BOGUS")
	assert.ErrorIs(t, err, ErrUnknownPromoCode)

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCheckoutIsAtomicOnBatchFailure(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 30, 5)
	seedListing(store, "p2", 20, 5)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2"} {
		_, err := svc.AddToCart(ctx, buyerSess, id, 1)
		require.NoError(t, err)
	}

	boom := errors.New("transaction aborted")
	store.FailNextBatch(boom)

	_, err := svc.CheckoutCart(ctx, buyerSess, "")
	assert.ErrorIs(t, err, boom)

	// Nothing moved: cart intact, no orders, stock unchanged.
	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	orders, err := svc.BuyerOrders(ctx, buyerSess)
	require.NoError(t, err)
	assert.Empty(t, orders)
	p, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
}

func TestCheckoutRejectsOversoldLine(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 30, 5)
	seedListing(store, "p2", 20, 5)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, buyerSess, "p1", 2)
	require.NoError(t, err)
	item, err := svc.AddToCart(ctx, buyerSess, "p2", 2)
	require.NoError(t, err)

	// Another sale drains p2 after it was staged.
	remaining := 1
	_, err = store.UpdateProductListing(ctx, "seller-1", "p2", nil, &remaining, item.UpdatedAt)
	require.NoError(t, err)

	_, err = svc.CheckoutCart(ctx, buyerSess, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The batch aborted as a whole, including the p1 line that could have
	// been covered.
	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	p, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
}

func TestPlaceDirectOrder(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 45, 3)
	ctx := context.Background()

	order, err := svc.PlaceDirectOrder(ctx, buyerSess, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 45.0, order.Price)
	assert.Equal(t, 2, order.Quantity)

	p, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
}

func TestPlaceDirectOrderRejectsZeroQuantity(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 45, 3)

	_, err := svc.PlaceDirectOrder(context.Background(), buyerSess, "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPlaceDirectOrderRejectsOverstock(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 45, 3)

	_, err := svc.PlaceDirectOrder(context.Background(), buyerSess, "p1", 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestPlaceDirectOrderRejectsSecondActiveOrder(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 45, 10)
	ctx := context.Background()

	_, err := svc.PlaceDirectOrder(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	_, err = svc.PlaceDirectOrder(ctx, buyerSess, "p1", 1)
	assert.ErrorIs(t, err, ErrActiveOrderExists)

	// Still blocked after the seller confirms.
	orders, err := svc.BuyerOrders(ctx, buyerSess)
	require.NoError(t, err)
	_, err = svc.AdvanceOrderStatus(ctx, sellerSess, orders[0].ID, models.OrderStatusConfirmed)
	require.NoError(t, err)

	_, err = svc.PlaceDirectOrder(ctx, buyerSess, "p1", 1)
	assert.ErrorIs(t, err, ErrActiveOrderExists)
}

func TestPlaceDirectOrderRevivesCancelledOrder(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 45, 10)
	ctx := context.Background()

	first, err := svc.PlaceDirectOrder(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)
	_, err = svc.CancelOrder(ctx, buyerSess, first.ID)
	require.NoError(t, err)

	// Listing changed between the cancellation and the repurchase.
	newPrice := 39.0
	_, err = store.UpdateProductListing(ctx, "seller-1", "p1", &newPrice, nil, first.UpdatedAt)
	require.NoError(t, err)

	revived, err := svc.PlaceDirectOrder(ctx, buyerSess, "p1", 3)
	require.NoError(t, err)

	// Same document, fresh state.
	assert.Equal(t, first.ID, revived.ID)
	assert.Equal(t, models.OrderStatusPending, revived.Status)
	assert.Equal(t, 39.0, revived.Price)
	assert.Equal(t, 3, revived.Quantity)

	orders, err := svc.BuyerOrders(ctx, buyerSess)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestActiveOrderLookup(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 45, 10)
	ctx := context.Background()

	_, err := svc.ActiveOrder(ctx, buyerSess, "p1")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	placed, err := svc.PlaceDirectOrder(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	active, err := svc.ActiveOrder(ctx, buyerSess, "p1")
	require.NoError(t, err)
	assert.Equal(t, placed.ID, active.ID)

	_, err = svc.CancelOrder(ctx, buyerSess, placed.ID)
	require.NoError(t, err)

	_, err = svc.ActiveOrder(ctx, buyerSess, "p1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPreviewTotals(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 50, 5)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, buyerSess, "p1", 2)
	require.NoError(t, err)

	totals, err := svc.PreviewTotals(ctx, buyerSess, "ADJ3AK")
	require.NoError(t, err)
	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 40.0, totals.Discount)
	assert.Equal(t, 65.0, totals.GrandTotal)

	// Previewing never consumes the cart.
	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
