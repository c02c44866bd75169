package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"loja/internal/services"
	"loja/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCheckoutService_CreateSession(t *testing.T) {
	mockGateway := new(MockGateway)
	service := services.NewCheckoutService(mockGateway, "http://localhost:5173")

	var captured payment.SessionRequest
	mockGateway.On("CreateSession", mock.Anything, mock.AnythingOfType("payment.SessionRequest")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(payment.SessionRequest)
		}).
		Return(&payment.Session{ID: "cs_123", URL: "https://pay.example.com/cs_123"}, nil).Once()

	url, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		UserEmail: "buyer@example.com",
		Items: []services.CartLine{
			{ID: "p1", ProductName: "Icon Pack", Price: 10.00, Quantity: 2},
			{ID: "p2", ProductName: "UI Kit", Price: 49.90, Quantity: 1},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_123", url)

	// Prices are converted to integer minor units.
	assert.Equal(t, []payment.LineItem{
		{Name: "Icon Pack", UnitAmount: 1000, Quantity: 2},
		{Name: "UI Kit", UnitAmount: 4990, Quantity: 1},
	}, captured.LineItems)
	assert.Equal(t, "buyer@example.com", captured.CustomerEmail)
	assert.Equal(t, payment.MethodCard, captured.PaymentMethod)
	assert.Equal(t, "http://localhost:5173/confirmacao", captured.SuccessURL)
	assert.Equal(t, "http://localhost:5173/carrinho", captured.CancelURL)

	// The session metadata carries only ids and quantities; prices are
	// re-resolved at fulfillment time.
	var metaLines []map[string]any
	assert.NoError(t, json.Unmarshal([]byte(captured.Metadata[services.CartMetadataKey]), &metaLines))
	assert.Len(t, metaLines, 2)
	assert.Equal(t, "p1", metaLines[0]["id"])
	assert.EqualValues(t, 2, metaLines[0]["quantity"])
	assert.NotContains(t, metaLines[0], "price")

	mockGateway.AssertExpectations(t)
}

func TestCheckoutService_CreateSession_PixMethod(t *testing.T) {
	mockGateway := new(MockGateway)
	service := services.NewCheckoutService(mockGateway, "http://localhost:5173")

	var captured payment.SessionRequest
	mockGateway.On("CreateSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(payment.SessionRequest)
		}).
		Return(&payment.Session{ID: "cs_pix", URL: "https://pay.example.com/cs_pix"}, nil).Once()

	_, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		UserEmail:     "buyer@example.com",
		PaymentMethod: payment.MethodPix,
		Items:         []services.CartLine{{ID: "p1", ProductName: "Icon Pack", Price: 19.9, Quantity: 1}},
	})

	assert.NoError(t, err)
	assert.Equal(t, payment.MethodPix, captured.PaymentMethod)
	mockGateway.AssertExpectations(t)
}

func TestCheckoutService_CreateSession_InvalidCart(t *testing.T) {
	mockGateway := new(MockGateway)
	service := services.NewCheckoutService(mockGateway, "http://localhost:5173")

	// Empty cart.
	_, err := service.CreateSession(context.Background(), services.CheckoutRequest{UserEmail: "buyer@example.com"})
	assert.ErrorIs(t, err, services.ErrInvalidCart)

	// Non-positive quantity.
	_, err = service.CreateSession(context.Background(), services.CheckoutRequest{
		UserEmail: "buyer@example.com",
		Items:     []services.CartLine{{ID: "p1", ProductName: "Icon Pack", Price: 19.9, Quantity: 0}},
	})
	assert.ErrorIs(t, err, services.ErrInvalidCart)

	// Non-positive price.
	_, err = service.CreateSession(context.Background(), services.CheckoutRequest{
		UserEmail: "buyer@example.com",
		Items:     []services.CartLine{{ID: "p1", ProductName: "Icon Pack", Price: 0, Quantity: 1}},
	})
	assert.ErrorIs(t, err, services.ErrInvalidCart)

	mockGateway.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCheckoutService_CreateSession_GatewayDisabled(t *testing.T) {
	service := services.NewCheckoutService(nil, "http://localhost:5173")

	_, err := service.CreateSession(context.Background(), services.CheckoutRequest{
		UserEmail: "buyer@example.com",
		Items:     []services.CartLine{{ID: "p1", ProductName: "Icon Pack", Price: 19.9, Quantity: 1}},
	})

	assert.ErrorIs(t, err, payment.ErrDisabled)
}
