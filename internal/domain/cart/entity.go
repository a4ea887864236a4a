// internal/domain/cart/entity.go
package cart

import (
	"context"
	"errors"

	"github.com/your-org/ricecart/internal/domain/catalog"
)

// Business-rule rejections. All are surfaced to the user as a notice, never
// retried.
var (
	ErrAlreadyInCart = errors.New("product is already in the cart")
	ErrNotInCart     = errors.New("item not found in cart")
	ErrEmptyCart     = errors.New("cart is empty")
)

// LineItem represents one cart entry. At most one line item exists per
// product; adding a product twice is rejected rather than merged.
type LineItem struct {
	// ProductID references a catalog entry.
	ProductID uint
	// Quantity is always >= 1; setting it below 1 removes the line item.
	Quantity int
	// Product is the denormalized product snapshot, captured at add-time
	// for the local cart and resolved at read-time for the remote cart.
	// Nil when the catalog lookup failed.
	Product *catalog.Product
	// RemoteID is the cart service's item id in authenticated mode, 0 for
	// local items.
	RemoteID uint
}

// UnitPrice returns the snapshot unit price, 0 when no snapshot is present
func (li LineItem) UnitPrice() int64 {
	if li.Product == nil {
		return 0
	}
	return li.Product.Prize
}

// Subtotal returns unit price times quantity
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice() * int64(li.Quantity)
}

// CheckoutRef is the identifier the payment collaborator addresses this
// line item by: the remote item id when one exists, the product id otherwise
func (li LineItem) CheckoutRef() uint {
	if li.RemoteID != 0 {
		return li.RemoteID
	}
	return li.ProductID
}

// Store is the shopping cart in either of its two representations: the
// anonymous cart persisted wholesale in the client-local slot, or the
// authenticated cart held by the remote cart service. The two never merge;
// callers pick one per session.
type Store interface {
	// Load returns the line items in insertion order. An empty cart is a
	// normal state, not an error.
	Load(ctx context.Context) ([]LineItem, error)
	// Add appends a new line item with quantity 1. Adding a product that
	// is already present returns ErrAlreadyInCart and changes nothing.
	Add(ctx context.Context, product *catalog.Product) error
	// Remove deletes the line item for productID, ErrNotInCart if absent.
	Remove(ctx context.Context, productID uint) error
	// SetQuantity updates the quantity; a quantity below 1 is equivalent
	// to Remove.
	SetQuantity(ctx context.Context, productID uint, quantity int) error
	// RemoveSettled drops the line items whose payment the order service
	// confirmed. Products not present are ignored.
	RemoveSettled(ctx context.Context, productIDs []uint) error
}
