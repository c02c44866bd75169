// Package payment wraps the payment provider behind a small gateway
// interface so services can be tested without network access.
package payment

import (
	"context"
	"errors"
)

// Event types the fulfillment pipeline cares about.
const EventCheckoutCompleted = "checkout.session.completed"

// Payment methods accepted at checkout.
const (
	MethodCard = "card"
	MethodPix  = "pix"
)

// ErrSignature is returned when a webhook payload fails signature
// verification.
var ErrSignature = errors.New("webhook signature verification failed")

// ErrDisabled is returned when no provider credentials are configured.
var ErrDisabled = errors.New("payment gateway not configured")

// LineItem is one checkout line in provider representation: unit amount
// in integer minor-currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionRequest describes a hosted checkout session to create.
type SessionRequest struct {
	LineItems     []LineItem
	CustomerEmail string
	PaymentMethod string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Session is the provider-side session the buyer is redirected to.
type Session struct {
	ID  string
	URL string
}

// CheckoutSession is the completed-session data carried by a webhook
// event.
type CheckoutSession struct {
	ID              string
	AmountTotal     int64 // minor units, as charged by the provider
	Currency        string
	CustomerEmail   string
	PaymentIntentID string
	Metadata        map[string]string
}

// Event is a verified webhook notification.
type Event struct {
	ID      string
	Type    string
	Session CheckoutSession
}

// Gateway is the payment-provider surface the application depends on.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	VerifyEvent(payload []byte, sigHeader string) (*Event, error)
}
