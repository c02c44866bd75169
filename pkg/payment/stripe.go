package payment

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeGateway implements Gateway on top of the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
}

// NewStripeGateway builds a gateway from the secret API key and the
// webhook signing secret.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		currency:      "brl",
	}
}

// CreateSession creates a hosted checkout session and returns its
// redirect URL. Nothing is persisted locally; the session lives inside
// Stripe.
func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
	}
	params.Context = ctx

	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	switch req.PaymentMethod {
	case MethodPix:
		params.PaymentMethodTypes = stripe.StringSlice([]string{"pix"})
		// Pix in Brazil requires the buyer's tax id with the billing
		// address, and sessions expire after one hour.
		params.BillingAddressCollection = stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired))
		params.PaymentMethodOptions = &stripe.CheckoutSessionPaymentMethodOptionsParams{
			Pix: &stripe.CheckoutSessionPaymentMethodOptionsPixParams{
				ExpiresAfterSeconds: stripe.Int64(3600),
			},
		}
	default:
		params.PaymentMethodTypes = stripe.StringSlice([]string{"card"})
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe session create: %w", err)
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyEvent checks the Stripe-Signature header against the signing
// secret and decodes the event. A signature mismatch returns
// ErrSignature; callers must not process the payload in that case.
func (g *StripeGateway) VerifyEvent(payload []byte, sigHeader string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	event := &Event{
		ID:   stripeEvent.ID,
		Type: string(stripeEvent.Type),
	}

	if event.Type == EventCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		event.Session = CheckoutSession{
			ID:          sess.ID,
			AmountTotal: sess.AmountTotal,
			Currency:    string(sess.Currency),
			Metadata:    sess.Metadata,
		}
		if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
			event.Session.CustomerEmail = sess.CustomerDetails.Email
		} else {
			event.Session.CustomerEmail = sess.CustomerEmail
		}
		if sess.PaymentIntent != nil {
			event.Session.PaymentIntentID = sess.PaymentIntent.ID
		}
	}

	return event, nil
}
