package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/threadline/marketplace-api/pkg/market"
)

// Store implements market.Store on MongoDB. Checkout batches run inside a
// multi-document transaction, so the deployment must be a replica set.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ market.Store = (*Store)(nil)

// NewStore wraps a connected client. The database name comes from the
// environment at startup.
func NewStore(client *mongo.Client, databaseName string) *Store {
	return &Store{
		client: client,
		db:     client.Database(databaseName),
	}
}

func (s *Store) products() *mongo.Collection  { return s.db.Collection(CollProducts) }
func (s *Store) cartItems() *mongo.Collection { return s.db.Collection(CollCartItems) }
func (s *Store) orders() *mongo.Collection    { return s.db.Collection(CollOrders) }
func (s *Store) users() *mongo.Collection     { return s.db.Collection(CollUsers) }
func (s *Store) comments() *mongo.Collection  { return s.db.Collection(CollComments) }
func (s *Store) stockLogs() *mongo.Collection { return s.db.Collection(CollStockLogs) }

// notFound translates the driver's empty-result error into the package
// sentinel for the entity being looked up.
func notFound(err, sentinel error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sentinel
	}
	return err
}
