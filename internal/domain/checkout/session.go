// internal/domain/checkout/session.go
package checkout

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/ricecart/internal/domain/cart"
)

// State is a checkout session's position in the payment handshake
type State string

const (
	// StateCreated: amount computed, no gateway order yet.
	StateCreated State = "created"
	// StateAwaitingGateway: gateway order open, waiting for the widget's
	// callback. The flow only leaves this state via an external event.
	StateAwaitingGateway State = "awaiting_gateway"
	// StateVerifying: callback received, verify round trip in flight.
	StateVerifying State = "verifying"
	// StateSettled: server confirmed the payment.
	StateSettled State = "settled"
	// StateFailed: gateway handoff or verification failed.
	StateFailed State = "failed"
)

// Scope selects what a checkout session covers: one line item or the whole
// cart
type Scope struct {
	All       bool
	ProductID uint
}

// ScopeAll covers every line item in the cart
func ScopeAll() Scope {
	return Scope{All: true}
}

// ScopeItem covers the single line item holding productID
func ScopeItem(productID uint) Scope {
	return Scope{ProductID: productID}
}

// Session is the ephemeral state spanning order creation through payment
// verification. It is never persisted and is discarded once it reaches
// StateSettled or StateFailed; aborting a checkout leaves no trace.
type Session struct {
	// Reference is a client-generated id distinguishing this attempt from
	// any re-initiation of the same scope.
	Reference string
	Scope     Scope
	// Items are the line items in scope, captured at initiation time.
	Items []cart.LineItem
	// Amount is Σ(unit price × quantity) over the scope, computed
	// client-side. Advisory: the server defines the money actually charged.
	Amount   int64
	Currency string

	// Filled once the gateway order exists.
	KeyID          string
	GatewayOrderID string
	// GatewayAmount is the amount the payment service reported back; this
	// is what the widget is invoked with.
	GatewayAmount int64

	state   State
	failure string
}

// newSession opens a session in StateCreated
func newSession(scope Scope, items []cart.LineItem, amount int64, currency string) *Session {
	return &Session{
		Reference: uuid.New().String(),
		Scope:     scope,
		Items:     items,
		Amount:    amount,
		Currency:  currency,
		state:     StateCreated,
	}
}

// State returns the session's current state
func (s *Session) State() State {
	return s.state
}

// FailureReason returns why a failed session failed
func (s *Session) FailureReason() string {
	return s.failure
}

// ProductIDs returns the product ids in scope
func (s *Session) ProductIDs() []uint {
	ids := make([]uint, 0, len(s.Items))
	for _, item := range s.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// orderCreated moves Created -> AwaitingGateway
func (s *Session) orderCreated(keyID, orderID string, gatewayAmount int64, currency string) error {
	if s.state != StateCreated {
		return s.illegal("order created", StateCreated)
	}
	s.KeyID = keyID
	s.GatewayOrderID = orderID
	s.GatewayAmount = gatewayAmount
	if currency != "" {
		s.Currency = currency
	}
	s.state = StateAwaitingGateway
	return nil
}

// callbackReceived moves AwaitingGateway -> Verifying
func (s *Session) callbackReceived() error {
	if s.state != StateAwaitingGateway {
		return s.illegal("callback received", StateAwaitingGateway)
	}
	s.state = StateVerifying
	return nil
}

// settle moves Verifying -> Settled
func (s *Session) settle() error {
	if s.state != StateVerifying {
		return s.illegal("settle", StateVerifying)
	}
	s.state = StateSettled
	return nil
}

// fail moves any non-terminal state -> Failed
func (s *Session) fail(reason string) {
	if s.state == StateSettled || s.state == StateFailed {
		return
	}
	s.state = StateFailed
	s.failure = reason
}

func (s *Session) illegal(event string, want State) error {
	return fmt.Errorf("checkout session %s: event %q requires state %q, session is %q",
		s.Reference, event, want, s.state)
}
