package market

import (
	"context"
	"errors"
	"time"

	"github.com/threadline/marketplace-api/pkg/events"
	"github.com/threadline/marketplace-api/pkg/models"
)

// AddToCart stages a purchase line for the session's buyer. Adding a product
// already in the cart merges into the existing line; the stock check always
// runs against the combined quantity. The price snapshot of an existing line
// is kept even if the listing price changed since.
func (s *Service) AddToCart(ctx context.Context, sess Session, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsInStock() {
		return nil, ErrInsufficientStock
	}

	existing, err := s.store.FindCartItemByProduct(ctx, sess.UID, productID)
	switch {
	case err == nil:
		combined := existing.Quantity + quantity
		if combined > product.Stock {
			return nil, ErrInsufficientStock
		}
		existing.Quantity = combined
		existing.UpdatedAt = time.Now()
		if err := s.store.UpdateCartQuantity(ctx, sess.UID, existing.ID, combined, existing.UpdatedAt); err != nil {
			return nil, err
		}
		s.publish(ctx, events.TypeCartItemUpdated, existing)
		return existing, nil

	case errors.Is(err, ErrCartItemNotFound):
		if quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		item := models.NewCartItem(sess.UID, product, quantity)
		if err := s.store.InsertCartItem(ctx, item); err != nil {
			return nil, err
		}
		s.publish(ctx, events.TypeCartItemAdded, item)
		return item, nil

	default:
		return nil, err
	}
}

// ChangeQuantity sets the quantity of a cart line. Values below 1 are
// ignored: the line keeps its current quantity and no error is reported,
// matching the +/- stepper in the client which bottoms out at 1. Stock is
// not re-validated here; checkout is the authoritative gate.
func (s *Service) ChangeQuantity(ctx context.Context, sess Session, itemID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if err := s.store.UpdateCartQuantity(ctx, sess.UID, itemID, quantity, time.Now()); err != nil {
		return err
	}
	s.publish(ctx, events.TypeCartItemUpdated, map[string]any{
		"itemId":   itemID,
		"userId":   sess.UID,
		"quantity": quantity,
	})
	return nil
}

// RemoveFromCart drops a line from the session's cart.
func (s *Service) RemoveFromCart(ctx context.Context, sess Session, itemID string) error {
	if err := s.store.DeleteCartItem(ctx, sess.UID, itemID); err != nil {
		return err
	}
	s.publish(ctx, events.TypeCartItemRemoved, map[string]any{
		"itemId": itemID,
		"userId": sess.UID,
	})
	return nil
}

// CartItems returns the session's staged lines.
func (s *Service) CartItems(ctx context.Context, sess Session) ([]models.CartItem, error) {
	return s.store.CartItems(ctx, sess.UID)
}

// WatchCart opens a live subscription on the session's cart.
func (s *Service) WatchCart(ctx context.Context, sess Session) (*CartSubscription, error) {
	return s.store.WatchCart(ctx, sess.UID)
}
