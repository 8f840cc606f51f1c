package market

import (
	"context"
	"time"

	"github.com/threadline/marketplace-api/pkg/events"
	"github.com/threadline/marketplace-api/pkg/models"
)

// Products lists active listings, optionally filtered to a category.
func (s *Service) Products(ctx context.Context, category string) ([]models.Product, error) {
	return s.store.ListActiveProducts(ctx, category)
}

// Product fetches a single listing.
func (s *Service) Product(ctx context.Context, productID string) (*models.Product, error) {
	return s.store.GetProduct(ctx, productID)
}

// SellerProducts lists the session's own listings, active or not.
func (s *Service) SellerProducts(ctx context.Context, sess Session) ([]models.Product, error) {
	return s.store.ListProductsBySeller(ctx, sess.UID)
}

// CreateListing publishes a new product under the session's seller account.
func (s *Service) CreateListing(ctx context.Context, sess Session, req models.CreateProductRequest) (*models.Product, error) {
	seller, err := s.store.GetUser(ctx, sess.UID)
	if err != nil {
		return nil, err
	}
	if !seller.IsSeller {
		return nil, ErrNotPermitted
	}

	product := req.ToProduct(seller.ID, seller.Name)
	if err := s.store.InsertProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateListing changes the price and/or stock of one of the session's
// listings. A stock edit writes an audit entry carrying the delta; the store
// keeps isActive in line with the new stock.
func (s *Service) UpdateListing(ctx context.Context, sess Session, productID string, req models.UpdateProductRequest) (*models.Product, error) {
	if req.Price == nil && req.Stock == nil {
		return s.store.GetProduct(ctx, productID)
	}

	before, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if before.SellerID != sess.UID {
		return nil, ErrNotPermitted
	}

	updated, err := s.store.UpdateProductListing(ctx, sess.UID, productID, req.Price, req.Stock, time.Now())
	if err != nil {
		return nil, err
	}

	if req.Stock != nil && *req.Stock != before.Stock {
		delta := *req.Stock - before.Stock
		changeType := models.StockChangeRestock
		if delta < 0 {
			changeType = models.StockChangeAdjustment
		}
		entry := models.NewStockChange(productID, "", changeType, delta, sess.UID)
		if err := s.store.InsertStockChange(ctx, entry); err != nil {
			return nil, err
		}
		s.publish(ctx, events.TypeStockChanged, entry)
	}
	return updated, nil
}

// DeleteListing removes one of the session's listings. Cart lines and orders
// referencing it keep their snapshots.
func (s *Service) DeleteListing(ctx context.Context, sess Session, productID string) error {
	return s.store.DeleteProduct(ctx, sess.UID, productID)
}

// AddComment attaches a buyer comment to a listing.
func (s *Service) AddComment(ctx context.Context, sess Session, productID string, req models.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	comment := models.NewComment(productID, sess.UID, sess.Name, req.Text, req.Rating)
	if err := s.store.InsertComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments returns the newest comments on a listing, capped at limit.
func (s *Service) Comments(ctx context.Context, productID string, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListComments(ctx, productID, limit)
}
