// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/config"
	"github.com/your-org/ricecart/internal/domain/cart"
	"github.com/your-org/ricecart/internal/domain/payment"
	"github.com/your-org/ricecart/internal/domain/session"
)

// ReceiptWriter renders a local record of a settled checkout. Rendering is
// best-effort; a failure never fails the checkout.
type ReceiptWriter interface {
	Write(co *Session, payload *CallbackPayload) (string, error)
}

// Service drives the two-phase checkout handshake: create a gateway order,
// hand off to the payment widget, verify the widget's signed callback, and
// only then remove the settled line items from the cart. No intermediate
// state is persisted before confirmation, so there is no rollback path;
// every failure simply leaves the cart as it was.
type Service struct {
	payment  *payment.Service
	widget   Widget
	receipts ReceiptWriter
	currency string
	appName  string
	logger   *logrus.Logger
}

// NewService creates a checkout service. receipts may be nil.
func NewService(paymentService *payment.Service, widget Widget, receipts ReceiptWriter, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		payment:  paymentService,
		widget:   widget,
		receipts: receipts,
		currency: cfg.Checkout.Currency,
		appName:  cfg.Receipt.CompanyName,
		logger:   logger,
	}
}

// Checkout runs one full checkout over the given scope. It returns the
// finished session: StateSettled with the items removed from the cart, or
// StateFailed with the cart untouched. A nil session means the flow aborted
// before a gateway order existed.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, store cart.Store, scope Scope) (*Session, error) {
	items, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := selectScope(items, scope)
	if err != nil {
		return nil, err
	}

	var amount int64
	for _, item := range selected {
		amount += item.Subtotal()
	}

	co := newSession(scope, selected, amount, s.currency)
	log := s.logger.WithFields(logrus.Fields{
		"reference": co.Reference,
		"amount":    amount,
	})

	// Phase one: open the gateway order. Fail-fast, no retry, nothing to
	// roll back.
	order, err := s.createOrder(ctx, sess, co)
	if err != nil {
		log.WithError(err).Warn("checkout aborted before gateway order")
		return nil, err
	}
	if err := co.orderCreated(order.RazorpayKey, order.OrderID, order.Amount, order.Currency); err != nil {
		return nil, err
	}
	log.WithField("gateway_order_id", co.GatewayOrderID).Info("gateway order created")

	// Hand off to the widget and wait for its callback event.
	payload, err := s.widget.Open(ctx, Options{
		Key:         co.KeyID,
		Amount:      co.GatewayAmount,
		Currency:    co.Currency,
		OrderID:     co.GatewayOrderID,
		Name:        s.appName,
		Description: "Payment for your order",
		PrefillName: sess.Profile.Username,
		PrefillMail: sess.Profile.Email,
	})
	if err != nil {
		co.fail(err.Error())
		return co, fmt.Errorf("payment widget closed without completing: %w", err)
	}
	if err := co.callbackReceived(); err != nil {
		return co, err
	}

	// Phase two: forward the signed payload verbatim for verification.
	verifyReq := &payment.VerificationRequest{
		RazorpayOrderID:   payload.RazorpayOrderID,
		RazorpayPaymentID: payload.RazorpayPaymentID,
		RazorpaySignature: payload.RazorpaySignature,
		UserID:            sess.UserID(),
	}
	if err := s.payment.VerifyPayment(ctx, sess.Token, verifyReq); err != nil {
		co.fail(err.Error())
		log.WithError(err).Warn("payment verification failed, cart unchanged")
		return co, err
	}

	if err := co.settle(); err != nil {
		return co, err
	}
	log.Info("payment settled")

	// Only a confirmed verification mutates the cart.
	if err := store.RemoveSettled(ctx, co.ProductIDs()); err != nil {
		log.WithError(err).Error("payment settled but cart update failed")
		return co, fmt.Errorf("payment settled but cart update failed: %w", err)
	}

	if s.receipts != nil {
		if path, err := s.receipts.Write(co, payload); err != nil {
			log.WithError(err).Warn("failed to write receipt")
		} else {
			log.WithField("path", path).Info("receipt written")
		}
	}

	return co, nil
}

// createOrder calls the create endpoint matching the scope
func (s *Service) createOrder(ctx context.Context, sess *session.Session, co *Session) (*payment.OrderResponse, error) {
	if co.Scope.All {
		return s.payment.CreateCartOrder(ctx, sess.Token, sess.UserID())
	}
	return s.payment.CreateItemOrder(ctx, sess.Token, co.Items[0].CheckoutRef(), co.Amount, co.Currency)
}

// selectScope picks the line items a scope covers
func selectScope(items []cart.LineItem, scope Scope) ([]cart.LineItem, error) {
	if len(items) == 0 {
		return nil, cart.ErrEmptyCart
	}

	if scope.All {
		return items, nil
	}

	for _, item := range items {
		if item.ProductID == scope.ProductID {
			return []cart.LineItem{item}, nil
		}
	}
	return nil, cart.ErrNotInCart
}
