// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"

	"github.com/your-org/ricecart/internal/pkg/api"
)

// Service reads product records from the remote catalog. The catalog is an
// opaque collaborator; this client never writes to it.
type Service struct {
	api *api.Client
}

// NewService creates a new catalog service
func NewService(apiClient *api.Client) *Service {
	return &Service{api: apiClient}
}

// List retrieves all products
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.api.Get(ctx, "products", "", &products); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// Get retrieves a single product by id
func (s *Service) Get(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := s.api.Get(ctx, fmt.Sprintf("products/%d", id), "", &product); err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &product, nil
}
