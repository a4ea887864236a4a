package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/ricecart/internal/domain/cart"
)

func testItems() []cart.LineItem {
	return []cart.LineItem{{ProductID: 1, Quantity: 2}}
}

func TestSession_HappyPath(t *testing.T) {
	s := newSession(ScopeItem(1), testItems(), 200, "INR")
	assert.Equal(t, StateCreated, s.State())
	assert.NotEmpty(t, s.Reference)

	require.NoError(t, s.orderCreated("rzp_test_key", "order_abc", 20000, "INR"))
	assert.Equal(t, StateAwaitingGateway, s.State())
	assert.Equal(t, "order_abc", s.GatewayOrderID)
	assert.Equal(t, int64(20000), s.GatewayAmount)

	require.NoError(t, s.callbackReceived())
	assert.Equal(t, StateVerifying, s.State())

	require.NoError(t, s.settle())
	assert.Equal(t, StateSettled, s.State())
}

func TestSession_IllegalTransitions(t *testing.T) {
	s := newSession(ScopeAll(), testItems(), 200, "INR")

	// No callback before the gateway order exists.
	assert.Error(t, s.callbackReceived())
	// No settling before verification starts.
	assert.Error(t, s.settle())

	require.NoError(t, s.orderCreated("k", "o", 200, "INR"))
	assert.Error(t, s.orderCreated("k", "o", 200, "INR"))
}

func TestSession_FailIsTerminal(t *testing.T) {
	s := newSession(ScopeItem(1), testItems(), 200, "INR")
	require.NoError(t, s.orderCreated("k", "o", 200, "INR"))

	s.fail("widget dismissed")
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, "widget dismissed", s.FailureReason())

	// A terminal session stays terminal.
	assert.Error(t, s.callbackReceived())
	s.fail("second reason")
	assert.Equal(t, "widget dismissed", s.FailureReason())
}

func TestSession_SettledCannotFail(t *testing.T) {
	s := newSession(ScopeItem(1), testItems(), 200, "INR")
	require.NoError(t, s.orderCreated("k", "o", 200, "INR"))
	require.NoError(t, s.callbackReceived())
	require.NoError(t, s.settle())

	s.fail("too late")
	assert.Equal(t, StateSettled, s.State())
}

func TestSession_ReferencesAreUnique(t *testing.T) {
	a := newSession(ScopeItem(1), testItems(), 200, "INR")
	b := newSession(ScopeItem(1), testItems(), 200, "INR")
	assert.NotEqual(t, a.Reference, b.Reference)
}

func TestSession_ProductIDs(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 3, Quantity: 1},
	}
	s := newSession(ScopeAll(), items, 0, "INR")
	assert.Equal(t, []uint{1, 3}, s.ProductIDs())
}
