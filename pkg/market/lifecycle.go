package market

import (
	"context"
	"time"

	"github.com/threadline/marketplace-api/pkg/events"
	"github.com/threadline/marketplace-api/pkg/models"
)

// validNext is the order lifecycle graph. Completed and cancelled are
// terminal; a cancelled order only comes back through revival, which
// replaces the document rather than transitioning it.
var validNext = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderStatusPending: {
		models.OrderStatusConfirmed: true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusCompleted: true,
		models.OrderStatusCancelled: true,
	},
}

// CanTransition reports whether the lifecycle graph allows from -> to.
func CanTransition(from, to models.OrderStatus) bool {
	return validNext[from][to]
}

// AdvanceOrderStatus moves an order forward on behalf of its seller:
// pending -> confirmed when dispatched, confirmed -> completed on delivery.
// Cancellation is the buyer's verb and is rejected here even though the
// graph allows it.
func (s *Service) AdvanceOrderStatus(ctx context.Context, sess Session, orderID string, next models.OrderStatus) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != sess.UID {
		return nil, ErrNotPermitted
	}
	if next == models.OrderStatusCancelled {
		return nil, ErrNotPermitted
	}
	if !CanTransition(order.Status, next) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.store.UpdateOrderStatus(ctx, order.ID, next, now); err != nil {
		return nil, err
	}
	order.Status = next
	order.UpdatedAt = now

	s.publish(ctx, events.TypeOrderStatusChanged, order)
	return order, nil
}

// CancelOrder lets the buyer back out of an order that has not completed.
// The order is retained as a cancelled document so a later purchase of the
// same product can revive it.
func (s *Service) CancelOrder(ctx context.Context, sess Session, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != sess.UID {
		return nil, ErrNotPermitted
	}
	if !order.CanBeCancelled() {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.store.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled, now); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = now

	s.publish(ctx, events.TypeOrderCancelled, order)
	return order, nil
}

// BuyerOrders returns every order the session has placed, newest first.
func (s *Service) BuyerOrders(ctx context.Context, sess Session) ([]models.Order, error) {
	return s.store.ListOrders(ctx, PartyBuyer, sess.UID)
}

// SellerOrders returns every sale against the session's listings.
func (s *Service) SellerOrders(ctx context.Context, sess Session) ([]models.Order, error) {
	return s.store.ListOrders(ctx, PartySeller, sess.UID)
}

// WatchBuyerOrders opens a live subscription on the session's purchases.
func (s *Service) WatchBuyerOrders(ctx context.Context, sess Session) (*OrderSubscription, error) {
	return s.store.WatchOrders(ctx, PartyBuyer, sess.UID)
}

// WatchSellerOrders opens a live subscription on the session's sales.
func (s *Service) WatchSellerOrders(ctx context.Context, sess Session) (*OrderSubscription, error) {
	return s.store.WatchOrders(ctx, PartySeller, sess.UID)
}

// GetOrder fetches an order the session participates in.
func (s *Service) GetOrder(ctx context.Context, sess Session, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != sess.UID && order.SellerID != sess.UID {
		return nil, ErrNotPermitted
	}
	return order, nil
}
