// internal/domain/cart/local.go
package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/domain/catalog"
	"github.com/your-org/ricecart/internal/infrastructure/localstore"
)

// storedItem is the wire format of one line item in the local slot. The
// shape predates this client; it matches what the web storefront keeps
// under its "cart" localStorage key, so the two stay interchangeable.
type storedItem struct {
	ID             uint             `json:"id"`
	Name           string           `json:"name"`
	Quantity       int              `json:"quantity"`
	ProductDetails *catalog.Product `json:"productDetails"`
}

// LocalStore is the anonymous cart, serialized wholesale into the
// client-local slot under a fixed key after every mutation.
type LocalStore struct {
	store  *localstore.Store
	ttl    time.Duration
	logger *logrus.Logger
}

// NewLocalStore creates a slot-backed cart store
func NewLocalStore(store *localstore.Store, ttl time.Duration, logger *logrus.Logger) *LocalStore {
	return &LocalStore{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Load reads the persisted cart. A missing slot is an empty cart, and so is
// a corrupt one: malformed persisted data is silently discarded rather than
// surfaced as an error.
func (s *LocalStore) Load(ctx context.Context) ([]LineItem, error) {
	raw, err := s.store.Get(ctx, localstore.CartKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return []LineItem{}, nil
	}

	var stored []storedItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.WithError(err).Warn("discarding corrupt cart data")
		return []LineItem{}, nil
	}

	items := make([]LineItem, 0, len(stored))
	for _, item := range stored {
		items = append(items, LineItem{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Product:   item.ProductDetails,
		})
	}
	return items, nil
}

// Add appends a new line item with quantity 1
func (s *LocalStore) Add(ctx context.Context, product *catalog.Product) error {
	items, err := s.Load(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.ProductID == product.ID {
			return ErrAlreadyInCart
		}
	}

	items = append(items, LineItem{
		ProductID: product.ID,
		Quantity:  1,
		Product:   product,
	})
	return s.persist(ctx, items)
}

// Remove deletes the line item for productID
func (s *LocalStore) Remove(ctx context.Context, productID uint) error {
	items, err := s.Load(ctx)
	if err != nil {
		return err
	}

	for i, item := range items {
		if item.ProductID == productID {
			items = append(items[:i], items[i+1:]...)
			return s.persist(ctx, items)
		}
	}
	return ErrNotInCart
}

// SetQuantity updates a line item's quantity; below 1 removes the item
func (s *LocalStore) SetQuantity(ctx context.Context, productID uint, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, productID)
	}

	items, err := s.Load(ctx)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return s.persist(ctx, items)
		}
	}
	return ErrNotInCart
}

// RemoveSettled drops the checked-out line items and persists the rest
func (s *LocalStore) RemoveSettled(ctx context.Context, productIDs []uint) error {
	items, err := s.Load(ctx)
	if err != nil {
		return err
	}

	settled := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		settled[id] = true
	}

	kept := items[:0]
	for _, item := range items {
		if !settled[item.ProductID] {
			kept = append(kept, item)
		}
	}
	return s.persist(ctx, kept)
}

// persist serializes the whole cart into the slot
func (s *LocalStore) persist(ctx context.Context, items []LineItem) error {
	stored := make([]storedItem, 0, len(items))
	for _, item := range items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		stored = append(stored, storedItem{
			ID:             item.ProductID,
			Name:           name,
			Quantity:       item.Quantity,
			ProductDetails: item.Product,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, localstore.CartKey, string(data), s.ttl)
}
