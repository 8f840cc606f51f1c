package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/marketplace-api/pkg/models"
)

var (
	buyerSess  = Session{UID: "buyer-1", Name: "Ana"}
	sellerSess = Session{UID: "seller-1", Name: "Bram"}
)

func newTestMarket(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	store.SeedUser(&models.User{ID: "buyer-1", Email: "ana@example.com", Name: "Ana"})
	store.SeedUser(&models.User{ID: "seller-1", Email: "bram@example.com", Name: "Bram", IsSeller: true})
	return New(store), store
}

func seedListing(store *MemoryStore, id string, price float64, stock int) *models.Product {
	p := &models.Product{
		ID:         id,
		Title:      "Vintage denim jacket",
		Price:      price,
		Category:   "jackets",
		ImageURL:   "https://img.example.com/" + id + ".jpg",
		SellerID:   "seller-1",
		SellerName: "Bram",
		Stock:      stock,
		IsActive:   stock > 0,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	store.SeedProduct(p)
	return p
}

func TestAddToCartCreatesSnapshotLine(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 29.99, 5)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, buyerSess, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "seller-1", item.SellerID)
	assert.Equal(t, 29.99, item.Price)
	assert.Equal(t, 2, item.Quantity)

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddToCartMergesExistingLine(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 5)
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, buyerSess, "p1", 2)
	require.NoError(t, err)
	merged, err := svc.AddToCart(ctx, buyerSess, "p1", 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 5, merged.Quantity)

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddToCartMergeKeepsPriceSnapshot(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 10)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	newPrice := 14.0
	_, err = store.UpdateProductListing(ctx, "seller-1", "p1", &newPrice, nil, time.Now())
	require.NoError(t, err)

	merged, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, merged.Price)
}

func TestAddToCartRejectsCombinedOverstock(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 4)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, buyerSess, "p1", 3)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, buyerSess, "p1", 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddToCartRejectsOverstockOnFirstAdd(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 2)

	_, err := svc.AddToCart(context.Background(), buyerSess, "p1", 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddToCartRejectsInactiveListing(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 0)

	_, err := svc.AddToCart(context.Background(), buyerSess, "p1", 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc, _ := newTestMarket(t)
	_, err := svc.AddToCart(context.Background(), buyerSess, "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 5)

	_, err := svc.AddToCart(context.Background(), buyerSess, "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestChangeQuantityUpdatesLine(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 5)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.ChangeQuantity(ctx, buyerSess, item.ID, 4))

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestChangeQuantityBelowOneIsIgnored(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 5)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, buyerSess, "p1", 2)
	require.NoError(t, err)

	require.NoError(t, svc.ChangeQuantity(ctx, buyerSess, item.ID, 0))
	require.NoError(t, svc.ChangeQuantity(ctx, buyerSess, item.ID, -3))

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestChangeQuantityDoesNotRecheckStock(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 3)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	// The stepper path trusts the add-time check; only checkout gates stock.
	require.NoError(t, svc.ChangeQuantity(ctx, buyerSess, item.ID, 50))

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Equal(t, 50, items[0].Quantity)
}

func TestChangeQuantityUnknownItem(t *testing.T) {
	svc, _ := newTestMarket(t)
	err := svc.ChangeQuantity(context.Background(), buyerSess, "missing", 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 5)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveFromCart(ctx, buyerSess, item.ID))

	items, err := svc.CartItems(ctx, buyerSess)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = svc.RemoveFromCart(ctx, buyerSess, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRemoveFromCartOtherUsersItem(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 5)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	err = svc.RemoveFromCart(ctx, Session{UID: "other"}, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestWatchCartStreamsChanges(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 10, 5)
	ctx := context.Background()

	sub, err := svc.WatchCart(ctx, buyerSess)
	require.NoError(t, err)
	defer sub.Cancel()
	assert.Empty(t, sub.Initial)

	item, err := svc.AddToCart(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)

	select {
	case ev := <-sub.Updates:
		assert.Equal(t, ChangeAdded, ev.Type)
		assert.Equal(t, item.ID, ev.Item.ID)
	case <-time.After(time.Second):
		t.Fatal("no cart event received")
	}

	require.NoError(t, svc.RemoveFromCart(ctx, buyerSess, item.ID))
	select {
	case ev := <-sub.Updates:
		assert.Equal(t, ChangeRemoved, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no removal event received")
	}
}

func TestWatchCartCancelClosesStream(t *testing.T) {
	svc, _ := newTestMarket(t)

	sub, err := svc.WatchCart(context.Background(), buyerSess)
	require.NoError(t, err)
	sub.Cancel()

	_, open := <-sub.Updates
	assert.False(t, open)
}
