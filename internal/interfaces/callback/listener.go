// internal/interfaces/callback/listener.go
package callback

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/config"
	"github.com/your-org/ricecart/internal/domain/checkout"
)

// Listener hosts the payment widget handoff for a headless client. It
// serves a minimal local page that loads the gateway's checkout script with
// the open order, then waits for the widget's handler to deliver the signed
// payload back to the same listener. The payload is handed to the checkout
// state machine as an event; the listener holds no checkout state itself.
type Listener struct {
	config *config.Config
	logger *logrus.Logger
}

// NewListener creates a widget callback listener
func NewListener(cfg *config.Config, logger *logrus.Logger) *Listener {
	return &Listener{
		config: cfg,
		logger: logger,
	}
}

// Open starts the listener, tells the user where to complete payment, and
// blocks until the signed payload arrives or ctx is cancelled. No timeout
// is applied beyond ctx; payment happens at the user's pace.
func (l *Listener) Open(ctx context.Context, opts checkout.Options) (*checkout.CallbackPayload, error) {
	if l.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(l.logger))

	payloads := make(chan checkout.CallbackPayload, 1)
	path := l.config.Checkout.CallbackPath

	engine.GET(path, func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := widgetPage.Execute(c.Writer, widgetPageData{
			Options:     opts,
			CallbackURL: l.config.GetCallbackURL(),
		}); err != nil {
			l.logger.WithError(err).Error("failed to render widget page")
		}
	})

	engine.POST(path, func(c *gin.Context) {
		var payload checkout.CallbackPayload
		if err := c.ShouldBind(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed callback payload"})
			return
		}
		if payload.RazorpayOrderID == "" || payload.RazorpayPaymentID == "" || payload.RazorpaySignature == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "incomplete callback payload"})
			return
		}

		// First complete payload wins; the channel is buffered so the
		// handler never blocks.
		select {
		case payloads <- payload:
		default:
			l.logger.Warn("duplicate widget callback ignored")
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment received, you can close this tab."})
	})

	addr := fmt.Sprintf("%s:%s", l.config.Checkout.CallbackHost, l.config.Checkout.CallbackPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	defer l.shutdown(srv)

	l.logger.Infof("Open %s in your browser to complete the payment", l.config.GetCallbackURL())

	select {
	case payload := <-payloads:
		return &payload, nil
	case err := <-serveErr:
		return nil, fmt.Errorf("callback listener failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// shutdown stops the listener gracefully
func (l *Listener) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), l.config.Checkout.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.logger.WithError(err).Warn("callback listener shutdown failed")
	}
}

type widgetPageData struct {
	Options     checkout.Options
	CallbackURL string
}

var widgetPage = template.Must(template.New("widget").Parse(`<!doctype html>
<html>
<head>
  <title>{{.Options.Name}} - Checkout</title>
  <script src="https://checkout.razorpay.com/v1/checkout.js"></script>
</head>
<body>
  <p>Opening payment window for order {{.Options.OrderID}}...</p>
  <script>
    var rzp = new Razorpay({
      key: {{.Options.Key}},
      amount: {{.Options.Amount}},
      currency: {{.Options.Currency}},
      name: {{.Options.Name}},
      description: {{.Options.Description}},
      order_id: {{.Options.OrderID}},
      prefill: {
        name: {{.Options.PrefillName}},
        email: {{.Options.PrefillMail}}
      },
      theme: { color: "#3399cc" },
      handler: function (response) {
        fetch({{.CallbackURL}}, {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify(response)
        }).then(function () {
          document.body.innerHTML = "<p>Payment submitted, you can close this tab.</p>";
        });
      }
    });
    rzp.open();
  </script>
</body>
</html>
`))
