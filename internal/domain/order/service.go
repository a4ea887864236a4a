// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/domain/catalog"
	"github.com/your-org/ricecart/internal/domain/session"
	"github.com/your-org/ricecart/internal/pkg/api"
)

// HistoryItem is one settled purchase from the order service, with the
// product snapshot resolved at read-time. Product is nil when the catalog
// lookup failed; the purchase itself still shows.
type HistoryItem struct {
	ID          uint             `json:"id"`
	ProductID   uint             `json:"product_id"`
	Quantity    int              `json:"quantity"`
	PurchasedAt time.Time        `json:"created_at"`
	Product     *catalog.Product `json:"-"`
}

// Service reads the authenticated user's order history
type Service struct {
	api     *api.Client
	catalog *catalog.Service
	logger  *logrus.Logger
}

// NewService creates a new order history service
func NewService(apiClient *api.Client, catalogService *catalog.Service, logger *logrus.Logger) *Service {
	return &Service{
		api:     apiClient,
		catalog: catalogService,
		logger:  logger,
	}
}

// History fetches the user's settled purchases, oldest first as the order
// service returns them
func (s *Service) History(ctx context.Context, sess *session.Session) ([]HistoryItem, error) {
	var items []HistoryItem
	endpoint := fmt.Sprintf("orders_history/%d", sess.UserID())
	if err := s.api.Get(ctx, endpoint, sess.Token, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch order history: %w", err)
	}

	for i := range items {
		product, err := s.catalog.Get(ctx, items[i].ProductID)
		if err != nil {
			s.logger.WithField("product_id", items[i].ProductID).
				WithError(err).Warn("failed to fetch product details for order")
			continue
		}
		items[i].Product = product
	}
	return items, nil
}
