package handlers

import (
	"errors"
	"log"

	"loja/internal/services"
	"loja/pkg/payment"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles checkout session creation and the payment
// provider's webhook callback.
type CheckoutHandler struct {
	checkout    *services.CheckoutService
	fulfillment *services.FulfillmentService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService, fulfillment *services.FulfillmentService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:    checkout,
		fulfillment: fulfillment,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")

	checkoutRoutes.Post("/create-checkout-session", h.HandleCreateSession)
	checkoutRoutes.Post("/webhook", h.HandleWebhook)
}

// HandleCreateSession builds a payment session for the submitted cart
// and returns the redirect URL.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	url, err := h.checkout.CreateSession(c.Context(), req)
	if err != nil {
		log.Printf("Error creating checkout session for %s: %v", req.UserEmail, err)
		if errors.Is(err, services.ErrInvalidCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "The cart is empty or contains invalid items",
			})
		}
		if errors.Is(err, payment.ErrDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "Payments are not configured",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create checkout session",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}

// HandleWebhook receives payment events. Only a bad signature is
// rejected; any failure after verification is handled internally and
// the provider still gets a 200, so it does not redeliver forever.
// The raw body is passed untouched because the signature covers the
// exact bytes on the wire.
func (h *CheckoutHandler) HandleWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	if err := h.fulfillment.HandleEvent(payload, sigHeader); err != nil {
		log.Printf("Webhook rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Webhook signature verification failed",
		})
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}
