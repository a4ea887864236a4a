// internal/domain/cart/remote.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/domain/catalog"
	"github.com/your-org/ricecart/internal/domain/session"
	"github.com/your-org/ricecart/internal/pkg/api"
)

// remoteItem mirrors the cart service's wire format
type remoteItem struct {
	ID        uint `json:"id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// RemoteStore is the authenticated cart, owned by the remote cart service.
// Every operation is a direct pass-through; the service is the source of
// truth and nothing is cached between calls.
type RemoteStore struct {
	api     *api.Client
	catalog *catalog.Service
	sess    *session.Session
	logger  *logrus.Logger
}

// NewRemoteStore creates a cart store bound to an authenticated session
func NewRemoteStore(apiClient *api.Client, catalogService *catalog.Service, sess *session.Session, logger *logrus.Logger) *RemoteStore {
	return &RemoteStore{
		api:     apiClient,
		catalog: catalogService,
		sess:    sess,
		logger:  logger,
	}
}

// Load fetches the cart and resolves a product snapshot for each item. A
// failed snapshot lookup leaves Product nil; the item itself still shows.
func (s *RemoteStore) Load(ctx context.Context) ([]LineItem, error) {
	var remote []remoteItem
	endpoint := fmt.Sprintf("cart/%d", s.sess.UserID())
	if err := s.api.Get(ctx, endpoint, s.sess.Token, &remote); err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	items := make([]LineItem, 0, len(remote))
	for _, item := range remote {
		product, err := s.catalog.Get(ctx, item.ProductID)
		if err != nil {
			s.logger.WithField("product_id", item.ProductID).
				WithError(err).Warn("failed to fetch product details for cart item")
			product = nil
		}
		items = append(items, LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   product,
			RemoteID:  item.ID,
		})
	}
	return items, nil
}

// Add creates a new cart item with quantity 1
func (s *RemoteStore) Add(ctx context.Context, product *catalog.Product) error {
	items, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ProductID == product.ID {
			return ErrAlreadyInCart
		}
	}

	body := map[string]interface{}{
		"user_id":    s.sess.UserID(),
		"product_id": product.ID,
		"quantity":   1,
	}
	if err := s.api.Post(ctx, "cart", s.sess.Token, body, nil); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

// Remove deletes the cart item holding productID
func (s *RemoteStore) Remove(ctx context.Context, productID uint) error {
	item, err := s.find(ctx, productID)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("cart/%d", item.RemoteID)
	if err := s.api.Delete(ctx, endpoint, s.sess.Token, nil); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

// SetQuantity updates a cart item's quantity; below 1 removes the item
func (s *RemoteStore) SetQuantity(ctx context.Context, productID uint, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, productID)
	}

	item, err := s.find(ctx, productID)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("cart/%d", item.RemoteID)
	body := map[string]int{"quantity": quantity}
	if err := s.api.Put(ctx, endpoint, s.sess.Token, body, nil); err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	return nil
}

// RemoveSettled is a no-op for the remote cart: the order service drops the
// purchased items itself once it confirms the payment. The next Load
// reflects that.
func (s *RemoteStore) RemoveSettled(ctx context.Context, productIDs []uint) error {
	s.logger.WithField("count", len(productIDs)).Debug("settled items removed by the order service")
	return nil
}

// find locates the remote line item for a product id
func (s *RemoteStore) find(ctx context.Context, productID uint) (*LineItem, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i], nil
		}
	}
	return nil, ErrNotInCart
}
