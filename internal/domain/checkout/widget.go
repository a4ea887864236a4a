// internal/domain/checkout/widget.go
package checkout

import "context"

// CallbackPayload is the signed payload the payment widget delivers once
// the user completes payment out-of-band. It is forwarded to the verify
// endpoint unmodified; the signature covers these exact values.
type CallbackPayload struct {
	RazorpayOrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature" form:"razorpay_signature"`
}

// Options is what the payment widget is invoked with
type Options struct {
	Key         string
	Amount      int64
	Currency    string
	OrderID     string
	Name        string
	Description string
	PrefillName string
	PrefillMail string
}

// Widget is the opaque payment collection surface. Open suspends the
// checkout flow until the widget's callback delivers the signed payload or
// ctx is cancelled. There is deliberately no timeout: payment completes
// outside the application's control, at the user's pace.
type Widget interface {
	Open(ctx context.Context, opts Options) (*CallbackPayload, error)
}
