package market

import (
	"context"
	"time"

	"github.com/threadline/marketplace-api/pkg/models"
)

// ChangeType classifies an entry on a subscription feed.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// CartEvent is one push update on a cart subscription.
type CartEvent struct {
	Type ChangeType      `json:"type"`
	Item models.CartItem `json:"item"`
}

// OrderEvent is one push update on an order subscription.
type OrderEvent struct {
	Type  ChangeType   `json:"type"`
	Order models.Order `json:"order"`
}

// CartSubscription is a live view of a buyer's cart: the snapshot at
// subscribe time plus a stream of subsequent changes. Cancel stops the
// stream and releases the underlying watch; the Updates channel is closed
// afterwards. Consumers react to the stream, they never block the producer.
type CartSubscription struct {
	Initial []models.CartItem
	Updates <-chan CartEvent
	Cancel  func()
}

// OrderSubscription is the order-collection counterpart of CartSubscription.
type OrderSubscription struct {
	Initial []models.Order
	Updates <-chan OrderEvent
	Cancel  func()
}

// OrderParty selects which side of an order a query matches.
type OrderParty string

const (
	PartyBuyer  OrderParty = "buyerId"
	PartySeller OrderParty = "sellerId"
)

// StockDecrement is one conditional stock guard inside a checkout batch:
// the product's stock must be at least Quantity or the whole batch aborts.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// CheckoutBatch describes the single all-or-nothing write the orchestrator
// issues: order inserts (or one revival), cart deletions, guarded stock
// decrements and their audit entries. Either every part applies or none.
type CheckoutBatch struct {
	BuyerID           string
	Orders            []*models.Order
	ReviveOrder       *models.Order
	DeleteCartItemIDs []string
	Decrements        []StockDecrement
	StockLogs         []*models.StockChange
}

// Store is the persistence contract of the transaction core. The production
// implementation lives in pkg/mongo; MemoryStore in this package backs the
// tests.
type Store interface {
	// Catalog
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListActiveProducts(ctx context.Context, category string) ([]models.Product, error)
	ListProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	UpdateProductListing(ctx context.Context, sellerID, productID string, price *float64, stock *int, updatedAt time.Time) (*models.Product, error)
	DeleteProduct(ctx context.Context, sellerID, productID string) error

	// Cart
	CartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	FindCartItemByProduct(ctx context.Context, userID, productID string) (*models.CartItem, error)
	InsertCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartQuantity(ctx context.Context, userID, itemID string, quantity int, updatedAt time.Time) error
	DeleteCartItem(ctx context.Context, userID, itemID string) error

	// Orders
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	FindOrderByStatus(ctx context.Context, buyerID, productID string, statuses ...models.OrderStatus) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, updatedAt time.Time) error
	ListOrders(ctx context.Context, party OrderParty, id string) ([]models.Order, error)

	// Checkout
	RunCheckoutBatch(ctx context.Context, batch CheckoutBatch) error

	// Comments
	InsertComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, productID string, limit int) ([]models.Comment, error)

	// Accounts
	InsertUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	InsertStockChange(ctx context.Context, sc *models.StockChange) error

	// Subscriptions
	WatchCart(ctx context.Context, userID string) (*CartSubscription, error)
	WatchOrders(ctx context.Context, party OrderParty, id string) (*OrderSubscription, error)
}

// EventPublisher fans mutation events out to interested consumers
// (dashboards, notification workers). Publishing is best effort: a failed
// publish is logged by the implementation and never fails the operation.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}
