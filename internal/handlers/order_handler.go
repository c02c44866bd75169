package handlers

import (
	"log"

	"loja/internal/middleware"
	"loja/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler serves the buyer-facing order queries. Orders are only
// written by the fulfillment pipeline; there is no create endpoint.
type OrderHandler struct {
	service      *services.OrderService
	authRequired fiber.Handler
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, authRequired fiber.Handler) *OrderHandler {
	return &OrderHandler{
		service:      service,
		authRequired: authRequired,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/my-orders", h.authRequired, h.HandleMyOrders)
}

// HandleMyOrders retrieves the authenticated buyer's orders, newest
// first.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	orders, err := h.service.MyOrders(user.Email)
	if err != nil {
		log.Printf("Error getting orders for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}
