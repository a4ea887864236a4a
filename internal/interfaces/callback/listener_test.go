package callback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/ricecart/internal/config"
	"github.com/your-org/ricecart/internal/domain/checkout"
	"github.com/your-org/ricecart/internal/interfaces/callback"
)

// freePort grabs a port the listener can bind without colliding with
// parallel tests.
func freePort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return port
}

func listenerConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Checkout.CallbackHost = "127.0.0.1"
	cfg.Checkout.CallbackPort = freePort(t)
	cfg.Checkout.CallbackPath = "/callback"
	cfg.Checkout.ShutdownTimeout = 2 * time.Second
	return cfg
}

// post keeps retrying until the listener has bound its port.
func post(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
		if err == nil {
			return resp
		}
		if time.Now().After(deadline) {
			t.Fatalf("callback listener never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestListener_DeliversPayload(t *testing.T) {
	cfg := listenerConfig(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	l := callback.NewListener(cfg, logger)

	want := checkout.CallbackPayload{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: "sig123",
	}

	go func() {
		resp := post(t, cfg.GetCallbackURL(), want)
		resp.Body.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := l.Open(ctx, checkout.Options{OrderID: "order_abc"})
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestListener_RejectsIncompletePayload(t *testing.T) {
	cfg := listenerConfig(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	l := callback.NewListener(cfg, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)

		// Missing signature: rejected, the listener keeps waiting.
		resp := post(t, cfg.GetCallbackURL(), map[string]string{
			"razorpay_order_id":   "order_abc",
			"razorpay_payment_id": "pay_xyz",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()

		resp = post(t, cfg.GetCallbackURL(), checkout.CallbackPayload{
			RazorpayOrderID:   "order_abc",
			RazorpayPaymentID: "pay_xyz",
			RazorpaySignature: "sig123",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := l.Open(ctx, checkout.Options{OrderID: "order_abc"})
	require.NoError(t, err)
	assert.Equal(t, "sig123", got.RazorpaySignature)
	<-done
}

func TestListener_ServesWidgetPage(t *testing.T) {
	cfg := listenerConfig(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	l := callback.NewListener(cfg, logger)

	pageCh := make(chan string, 1)
	go func() {
		deadline := time.Now().Add(3 * time.Second)
		for {
			resp, err := http.Get(cfg.GetCallbackURL())
			if err == nil {
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				pageCh <- string(body)
				break
			}
			if time.Now().After(deadline) {
				pageCh <- fmt.Sprintf("listener never came up: %v", err)
				break
			}
			time.Sleep(20 * time.Millisecond)
		}

		// Unblock Open once the page has been fetched.
		resp := post(t, cfg.GetCallbackURL(), checkout.CallbackPayload{
			RazorpayOrderID:   "order_abc",
			RazorpayPaymentID: "pay_xyz",
			RazorpaySignature: "sig123",
		})
		resp.Body.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := l.Open(ctx, checkout.Options{
		Key:      "rzp_test_key",
		Amount:   200,
		Currency: "INR",
		OrderID:  "order_abc",
		Name:     "Rice",
	})
	require.NoError(t, err)

	page := <-pageCh
	assert.Contains(t, page, "order_abc")
	assert.Contains(t, page, "rzp_test_key")
	assert.Contains(t, page, "checkout.razorpay.com")
}

func TestListener_ContextCancelled(t *testing.T) {
	cfg := listenerConfig(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	l := callback.NewListener(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := l.Open(ctx, checkout.Options{OrderID: "order_abc"})
	assert.ErrorIs(t, err, context.Canceled)
}
