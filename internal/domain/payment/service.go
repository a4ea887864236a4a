// internal/domain/payment/service.go
package payment

import (
	"context"
	"fmt"

	"github.com/your-org/ricecart/internal/pkg/api"
)

// OrderResponse is what the payment service returns when it creates a
// gateway order. Everything here is handed to the payment widget verbatim.
type OrderResponse struct {
	RazorpayKey string `json:"razorpay_key"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	OrderID     string `json:"order_id"`
}

// VerificationRequest carries the widget's signed callback payload to the
// verify endpoint. The three razorpay_* fields must be forwarded exactly as
// the widget produced them; the server checks the signature against them.
type VerificationRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	UserID            uint   `json:"user_id"`
}

// Service is the client of the Payment collaborator. Both calls are single
// blocking round trips with fail-fast semantics; a failure aborts the
// checkout flow with no retry.
type Service struct {
	api *api.Client
}

// NewService creates a new payment service client
func NewService(apiClient *api.Client) *Service {
	return &Service{api: apiClient}
}

// CreateItemOrder asks the payment service to open a gateway order for a
// single cart item. The amount is advisory; the server recomputes the money
// actually charged.
func (s *Service) CreateItemOrder(ctx context.Context, token string, itemID uint, amount int64, currency string) (*OrderResponse, error) {
	body := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
	}

	var resp OrderResponse
	endpoint := fmt.Sprintf("cart/buy_item/%d", itemID)
	if err := s.api.Post(ctx, endpoint, token, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	return &resp, nil
}

// CreateCartOrder asks the payment service to open a gateway order covering
// the user's whole cart
func (s *Service) CreateCartOrder(ctx context.Context, token string, userID uint) (*OrderResponse, error) {
	body := map[string]uint{"user_id": userID}

	var resp OrderResponse
	if err := s.api.Post(ctx, "cart/checkout", token, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	return &resp, nil
}

// VerifyPayment forwards the widget's signed payload for server-side
// verification. Only a nil return means the payment is confirmed.
func (s *Service) VerifyPayment(ctx context.Context, token string, req *VerificationRequest) error {
	if err := s.api.Post(ctx, "cart/verify_payment", token, req, nil); err != nil {
		return fmt.Errorf("payment verification failed: %w", err)
	}
	return nil
}
