package market

import (
	"context"
	"errors"

	"github.com/threadline/marketplace-api/pkg/events"
	"github.com/threadline/marketplace-api/pkg/models"
)

// CheckoutResult is what a successful cart checkout hands back: the created
// orders and the financial breakdown they were charged under.
type CheckoutResult struct {
	Orders []*models.Order `json:"orders"`
	Totals models.Totals   `json:"totals"`
}

// PreviewTotals computes the checkout breakdown for the session's current
// cart without committing anything. An empty promo code means no discount.
func (s *Service) PreviewTotals(ctx context.Context, sess Session, promoCode string) (models.Totals, error) {
	items, err := s.store.CartItems(ctx, sess.UID)
	if err != nil {
		return models.Totals{}, err
	}
	promo, err := s.resolvePromo(promoCode)
	if err != nil {
		return models.Totals{}, err
	}
	return ComputeTotals(items, promo), nil
}

// CheckoutCart converts every staged cart line into a pending order and
// clears the cart, all in one batch. Each line becomes its own order so the
// two sellers of a mixed cart each see only their sale. Stock is decremented
// per product inside the batch; if any product cannot cover its line the
// whole checkout fails and the cart is left untouched.
func (s *Service) CheckoutCart(ctx context.Context, sess Session, promoCode string) (*CheckoutResult, error) {
	items, err := s.store.CartItems(ctx, sess.UID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	promo, err := s.resolvePromo(promoCode)
	if err != nil {
		return nil, err
	}

	batch := CheckoutBatch{BuyerID: sess.UID}
	orders := make([]*models.Order, 0, len(items))
	for i := range items {
		item := &items[i]
		order := models.OrderFromCartItem(item)
		orders = append(orders, order)
		batch.Orders = append(batch.Orders, order)
		batch.DeleteCartItemIDs = append(batch.DeleteCartItemIDs, item.ID)
		batch.Decrements = append(batch.Decrements, StockDecrement{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
		batch.StockLogs = append(batch.StockLogs,
			models.NewStockChange(item.ProductID, order.ID, models.StockChangeSale, -item.Quantity, sess.UID))
	}

	if err := s.store.RunCheckoutBatch(ctx, batch); err != nil {
		return nil, err
	}

	result := &CheckoutResult{Orders: orders, Totals: ComputeTotals(items, promo)}
	for _, order := range orders {
		s.publish(ctx, events.TypeOrderPlaced, order)
	}
	s.publish(ctx, events.TypeCheckoutCompleted, result)
	return result, nil
}

// PlaceDirectOrder buys a product from its detail view, bypassing the cart.
// A buyer holds at most one active order per product: if a pending or
// confirmed one exists the purchase is rejected, and if the most recent
// order was cancelled it is revived under the same id with fresh snapshots
// instead of creating a second document.
func (s *Service) PlaceDirectOrder(ctx context.Context, sess Session, productID string, quantity int) (*models.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsInStock() || quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	if _, err := s.store.FindOrderByStatus(ctx, sess.UID, productID,
		models.OrderStatusPending, models.OrderStatusConfirmed); err == nil {
		return nil, ErrActiveOrderExists
	} else if !errors.Is(err, ErrOrderNotFound) {
		return nil, err
	}

	batch := CheckoutBatch{
		BuyerID: sess.UID,
		Decrements: []StockDecrement{
			{ProductID: productID, Quantity: quantity},
		},
	}

	var order *models.Order
	revived := false
	cancelled, err := s.store.FindOrderByStatus(ctx, sess.UID, productID, models.OrderStatusCancelled)
	switch {
	case err == nil:
		cancelled.Revive(product, quantity)
		order = cancelled
		batch.ReviveOrder = cancelled
		revived = true
	case errors.Is(err, ErrOrderNotFound):
		order = models.NewOrder(sess.UID, product, quantity)
		batch.Orders = []*models.Order{order}
	default:
		return nil, err
	}

	batch.StockLogs = []*models.StockChange{
		models.NewStockChange(productID, order.ID, models.StockChangeSale, -quantity, sess.UID),
	}

	if err := s.store.RunCheckoutBatch(ctx, batch); err != nil {
		return nil, err
	}

	if revived {
		s.publish(ctx, events.TypeOrderRevived, order)
	} else {
		s.publish(ctx, events.TypeOrderPlaced, order)
	}
	return order, nil
}

// ActiveOrder returns the session's pending or confirmed order for a
// product, or ErrOrderNotFound. The product detail view uses it to swap the
// buy button for an order status banner.
func (s *Service) ActiveOrder(ctx context.Context, sess Session, productID string) (*models.Order, error) {
	return s.store.FindOrderByStatus(ctx, sess.UID, productID,
		models.OrderStatusPending, models.OrderStatusConfirmed)
}

func (s *Service) resolvePromo(code string) (*models.Promo, error) {
	if code == "" {
		return nil, nil
	}
	promo, err := ApplyPromo(code)
	if err != nil {
		return nil, err
	}
	return &promo, nil
}
