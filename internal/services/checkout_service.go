package services

import (
	"context"
	"encoding/json"
	"fmt"

	"loja/pkg/payment"

	"github.com/shopspring/decimal"
)

// CartLine is one client-held cart entry submitted at checkout.
type CartLine struct {
	ID          string  `json:"id" validate:"required"`
	ProductName string  `json:"productName" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest is the body of a create-checkout-session call.
type CheckoutRequest struct {
	Items         []CartLine `json:"items"`
	UserEmail     string     `json:"userEmail" validate:"required,email"`
	PaymentMethod string     `json:"paymentMethod"`
}

// cartMetadataLine is the minimal reconstruction data stored in the
// provider session: enough for fulfillment to re-resolve authoritative
// prices instead of trusting the client's.
type cartMetadataLine struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

// CartMetadataKey is the session metadata key carrying the cart lines.
const CartMetadataKey = "cartItems"

// CheckoutService builds payment-provider sessions from cart contents.
// It persists nothing locally; the session lives inside the provider.
type CheckoutService struct {
	gateway     payment.Gateway
	frontendURL string
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(gateway payment.Gateway, frontendURL string) *CheckoutService {
	return &CheckoutService{
		gateway:     gateway,
		frontendURL: frontendURL,
	}
}

// minorUnits converts a decimal price into integer minor-currency
// units, rounding half up (10.005 becomes 1001).
func minorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}

// CreateSession validates the cart, converts it to the provider's
// line-item representation, and returns the redirect URL.
func (s *CheckoutService) CreateSession(ctx context.Context, req CheckoutRequest) (string, error) {
	if s.gateway == nil {
		return "", payment.ErrDisabled
	}
	if len(req.Items) == 0 {
		return "", ErrInvalidCart
	}

	lineItems := make([]payment.LineItem, 0, len(req.Items))
	metaLines := make([]cartMetadataLine, 0, len(req.Items))
	for _, line := range req.Items {
		if line.ID == "" || line.ProductName == "" || line.Price <= 0 || line.Quantity <= 0 {
			return "", ErrInvalidCart
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:       line.ProductName,
			UnitAmount: minorUnits(line.Price),
			Quantity:   line.Quantity,
		})
		metaLines = append(metaLines, cartMetadataLine{ID: line.ID, Quantity: line.Quantity})
	}

	metaJSON, err := json.Marshal(metaLines)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart metadata: %w", err)
	}

	method := req.PaymentMethod
	if method != payment.MethodPix {
		method = payment.MethodCard
	}

	sess, err := s.gateway.CreateSession(ctx, payment.SessionRequest{
		LineItems:     lineItems,
		CustomerEmail: req.UserEmail,
		PaymentMethod: method,
		SuccessURL:    s.frontendURL + "/confirmacao",
		CancelURL:     s.frontendURL + "/carrinho",
		Metadata:      map[string]string{CartMetadataKey: string(metaJSON)},
	})
	if err != nil {
		return "", fmt.Errorf("payment provider rejected the session: %w", err)
	}
	return sess.URL, nil
}
