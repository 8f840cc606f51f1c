package market

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/threadline/marketplace-api/pkg/models"
)

// MemoryStore is a mutex-guarded Store for tests. It mirrors the production
// store's guarantees: checkout batches are all-or-nothing, the conditional
// stock guard rejects oversells, and at most one active order exists per
// buyer and product.
type MemoryStore struct {
	mu         sync.Mutex
	products   map[string]models.Product
	cartItems  map[string]models.CartItem
	orders     map[string]models.Order
	comments   []models.Comment
	users      map[string]models.User
	stockLogs  []models.StockChange
	cartSubs   map[int]*memCartSub
	orderSubs  map[int]*memOrderSub
	nextSubID  int
	batchErr   error
	BatchCalls int
}

type memCartSub struct {
	userID string
	ch     chan CartEvent
}

type memOrderSub struct {
	party OrderParty
	id    string
	ch    chan OrderEvent
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[string]models.Product),
		cartItems: make(map[string]models.CartItem),
		orders:    make(map[string]models.Order),
		users:     make(map[string]models.User),
		cartSubs:  make(map[int]*memCartSub),
		orderSubs: make(map[int]*memOrderSub),
	}
}

// FailNextBatch makes the next RunCheckoutBatch call fail with err without
// applying anything.
func (m *MemoryStore) FailNextBatch(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchErr = err
}

// SeedProduct inserts a listing directly for test setup.
func (m *MemoryStore) SeedProduct(p *models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
}

// SeedUser inserts an account directly for test setup.
func (m *MemoryStore) SeedUser(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
}

// StockLogs returns a copy of the audit trail written so far.
func (m *MemoryStore) StockLogs() []models.StockChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.StockChange, len(m.stockLogs))
	copy(out, m.stockLogs)
	return out
}

// Catalog

func (m *MemoryStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (m *MemoryStore) ListActiveProducts(ctx context.Context, category string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	sortProductsNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) ListProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	sortProductsNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) InsertProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *MemoryStore) UpdateProductListing(ctx context.Context, sellerID, productID string, price *float64, stock *int, updatedAt time.Time) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok || p.SellerID != sellerID {
		return nil, ErrProductNotFound
	}
	if price != nil {
		p.Price = *price
	}
	if stock != nil {
		p.Stock = *stock
		p.IsActive = *stock > 0
	}
	p.UpdatedAt = updatedAt
	m.products[productID] = p
	return &p, nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok || p.SellerID != sellerID {
		return ErrProductNotFound
	}
	delete(m.products, productID)
	return nil
}

// Cart

func (m *MemoryStore) CartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartItemsLocked(userID), nil
}

func (m *MemoryStore) cartItemsLocked(userID string) []models.CartItem {
	var out []models.CartItem
	for _, it := range m.cartItems {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MemoryStore) FindCartItemByProduct(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			found := it
			return &found, nil
		}
	}
	return nil, ErrCartItemNotFound
}

func (m *MemoryStore) InsertCartItem(ctx context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartItems[item.ID] = *item
	m.emitCartLocked(CartEvent{Type: ChangeAdded, Item: *item})
	return nil
}

func (m *MemoryStore) UpdateCartQuantity(ctx context.Context, userID, itemID string, quantity int, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.cartItems[itemID]
	if !ok || it.UserID != userID {
		return ErrCartItemNotFound
	}
	it.Quantity = quantity
	it.UpdatedAt = updatedAt
	m.cartItems[itemID] = it
	m.emitCartLocked(CartEvent{Type: ChangeModified, Item: it})
	return nil
}

func (m *MemoryStore) DeleteCartItem(ctx context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.cartItems[itemID]
	if !ok || it.UserID != userID {
		return ErrCartItemNotFound
	}
	delete(m.cartItems, itemID)
	m.emitCartLocked(CartEvent{Type: ChangeRemoved, Item: it})
	return nil
}

// Orders

func (m *MemoryStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (m *MemoryStore) FindOrderByStatus(ctx context.Context, buyerID, productID string, statuses ...models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *models.Order
	for _, o := range m.orders {
		if o.BuyerID != buyerID || o.ProductID != productID {
			continue
		}
		for _, st := range statuses {
			if o.Status == st {
				candidate := o
				if newest == nil || candidate.CreatedAt.After(newest.CreatedAt) {
					newest = &candidate
				}
			}
		}
	}
	if newest == nil {
		return nil, ErrOrderNotFound
	}
	return newest, nil
}

func (m *MemoryStore) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	m.orders[orderID] = o
	m.emitOrderLocked(OrderEvent{Type: ChangeModified, Order: o})
	return nil
}

func (m *MemoryStore) ListOrders(ctx context.Context, party OrderParty, id string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if orderMatchesParty(o, party, id) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func orderMatchesParty(o models.Order, party OrderParty, id string) bool {
	if party == PartySeller {
		return o.SellerID == id
	}
	return o.BuyerID == id
}

// Checkout

func (m *MemoryStore) RunCheckoutBatch(ctx context.Context, batch CheckoutBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchCalls++

	if m.batchErr != nil {
		err := m.batchErr
		m.batchErr = nil
		return err
	}

	// Validate everything before touching state.
	for _, d := range batch.Decrements {
		p, ok := m.products[d.ProductID]
		if !ok {
			return ErrProductNotFound
		}
		if p.Stock < d.Quantity {
			return ErrInsufficientStock
		}
	}
	for _, o := range batch.Orders {
		for _, existing := range m.orders {
			if existing.BuyerID == o.BuyerID && existing.ProductID == o.ProductID && existing.Status.IsActive() {
				return ErrActiveOrderExists
			}
		}
	}
	if batch.ReviveOrder != nil {
		if _, ok := m.orders[batch.ReviveOrder.ID]; !ok {
			return ErrOrderNotFound
		}
	}

	for _, o := range batch.Orders {
		m.orders[o.ID] = *o
		m.emitOrderLocked(OrderEvent{Type: ChangeAdded, Order: *o})
	}
	if batch.ReviveOrder != nil {
		m.orders[batch.ReviveOrder.ID] = *batch.ReviveOrder
		m.emitOrderLocked(OrderEvent{Type: ChangeModified, Order: *batch.ReviveOrder})
	}
	for _, itemID := range batch.DeleteCartItemIDs {
		if it, ok := m.cartItems[itemID]; ok {
			delete(m.cartItems, itemID)
			m.emitCartLocked(CartEvent{Type: ChangeRemoved, Item: it})
		}
	}
	for _, d := range batch.Decrements {
		p := m.products[d.ProductID]
		p.Stock -= d.Quantity
		p.IsActive = p.Stock > 0
		p.UpdatedAt = time.Now()
		m.products[d.ProductID] = p
	}
	for _, sc := range batch.StockLogs {
		m.stockLogs = append(m.stockLogs, *sc)
	}
	return nil
}

// Comments

func (m *MemoryStore) InsertComment(ctx context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, *c)
	return nil
}

func (m *MemoryStore) ListComments(ctx context.Context, productID string, limit int) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Comment
	for _, c := range m.comments {
		if c.ProductID == productID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Accounts

func (m *MemoryStore) InsertUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryStore) InsertStockChange(ctx context.Context, sc *models.StockChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stockLogs = append(m.stockLogs, *sc)
	return nil
}

// Subscriptions

func (m *MemoryStore) WatchCart(ctx context.Context, userID string) (*CartSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	initial := m.cartItemsLocked(userID)
	ch := make(chan CartEvent, 64)
	id := m.nextSubID
	m.nextSubID++
	m.cartSubs[id] = &memCartSub{userID: userID, ch: ch}
	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.cartSubs[id]; ok {
			delete(m.cartSubs, id)
			close(sub.ch)
		}
	}
	return &CartSubscription{Initial: initial, Updates: ch, Cancel: cancel}, nil
}

func (m *MemoryStore) WatchOrders(ctx context.Context, party OrderParty, partyID string) (*OrderSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var initial []models.Order
	for _, o := range m.orders {
		if orderMatchesParty(o, party, partyID) {
			initial = append(initial, o)
		}
	}
	sort.Slice(initial, func(i, j int) bool { return initial[i].CreatedAt.After(initial[j].CreatedAt) })
	ch := make(chan OrderEvent, 64)
	id := m.nextSubID
	m.nextSubID++
	m.orderSubs[id] = &memOrderSub{party: party, id: partyID, ch: ch}
	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.orderSubs[id]; ok {
			delete(m.orderSubs, id)
			close(sub.ch)
		}
	}
	return &OrderSubscription{Initial: initial, Updates: ch, Cancel: cancel}, nil
}

func (m *MemoryStore) emitCartLocked(ev CartEvent) {
	for _, sub := range m.cartSubs {
		if sub.userID != ev.Item.UserID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

func (m *MemoryStore) emitOrderLocked(ev OrderEvent) {
	for _, sub := range m.orderSubs {
		if !orderMatchesParty(ev.Order, sub.party, sub.id) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

func sortProductsNewestFirst(out []models.Product) {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
}
