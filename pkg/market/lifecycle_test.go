package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/marketplace-api/pkg/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusCompleted, false},
		{models.OrderStatusConfirmed, models.OrderStatusCompleted, true},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled, true},
		{models.OrderStatusConfirmed, models.OrderStatusPending, false},
		{models.OrderStatusCompleted, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func placeTestOrder(t *testing.T, svc *Service, store *MemoryStore) *models.Order {
	t.Helper()
	seedListing(store, "p1", 45, 10)
	order, err := svc.PlaceDirectOrder(context.Background(), buyerSess, "p1", 1)
	require.NoError(t, err)
	return order
}

func TestSellerAdvancesOrderThroughLifecycle(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)
	ctx := context.Background()

	confirmed, err := svc.AdvanceOrderStatus(ctx, sellerSess, order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, confirmed.Status)

	completed, err := svc.AdvanceOrderStatus(ctx, sellerSess, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)
}

func TestSellerCannotSkipConfirmation(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)

	_, err := svc.AdvanceOrderStatus(context.Background(), sellerSess, order.ID, models.OrderStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSellerCannotCancel(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)

	_, err := svc.AdvanceOrderStatus(context.Background(), sellerSess, order.ID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestOnlyTheSellerAdvances(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)
	ctx := context.Background()

	_, err := svc.AdvanceOrderStatus(ctx, buyerSess, order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, err = svc.AdvanceOrderStatus(ctx, Session{UID: "stranger"}, order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestFailedTransitionLeavesOrderUntouched(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)
	ctx := context.Background()

	before, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = svc.AdvanceOrderStatus(ctx, sellerSess, order.ID, models.OrderStatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)

	after, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))
}

func TestBuyerCancelsPendingOrder(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)

	cancelled, err := svc.CancelOrder(context.Background(), buyerSess, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestBuyerCancelsConfirmedOrder(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)
	ctx := context.Background()

	_, err := svc.AdvanceOrderStatus(ctx, sellerSess, order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, buyerSess, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestBuyerCannotCancelCompletedOrder(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)
	ctx := context.Background()

	_, err := svc.AdvanceOrderStatus(ctx, sellerSess, order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	_, err = svc.AdvanceOrderStatus(ctx, sellerSess, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	_, err = svc.CancelOrder(ctx, buyerSess, order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOnlyTheBuyerCancels(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)

	_, err := svc.CancelOrder(context.Background(), sellerSess, order.ID)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestOrderListingsPerParty(t *testing.T) {
	svc, store := newTestMarket(t)
	seedListing(store, "p1", 45, 10)
	seedListing(store, "p2", 30, 10)
	ctx := context.Background()

	_, err := svc.PlaceDirectOrder(ctx, buyerSess, "p1", 1)
	require.NoError(t, err)
	otherBuyer := Session{UID: "buyer-2", Name: "Cleo"}
	_, err = svc.PlaceDirectOrder(ctx, otherBuyer, "p2", 1)
	require.NoError(t, err)

	mine, err := svc.BuyerOrders(ctx, buyerSess)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	sales, err := svc.SellerOrders(ctx, sellerSess)
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}

func TestWatchOrdersStreamsStatusChanges(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)
	ctx := context.Background()

	sub, err := svc.WatchBuyerOrders(ctx, buyerSess)
	require.NoError(t, err)
	defer sub.Cancel()
	require.Len(t, sub.Initial, 1)

	_, err = svc.AdvanceOrderStatus(ctx, sellerSess, order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)

	select {
	case ev := <-sub.Updates:
		assert.Equal(t, ChangeModified, ev.Type)
		assert.Equal(t, models.OrderStatusConfirmed, ev.Order.Status)
	case <-time.After(time.Second):
		t.Fatal("no order event received")
	}
}

func TestGetOrderRestrictedToParticipants(t *testing.T) {
	svc, store := newTestMarket(t)
	order := placeTestOrder(t, svc, store)
	ctx := context.Background()

	_, err := svc.GetOrder(ctx, buyerSess, order.ID)
	require.NoError(t, err)
	_, err = svc.GetOrder(ctx, sellerSess, order.ID)
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, Session{UID: "stranger"}, order.ID)
	assert.ErrorIs(t, err, ErrNotPermitted)
}
