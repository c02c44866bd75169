package handlers

import (
	"errors"
	"log"

	"loja/internal/repositories"
	"loja/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdSlotHandler handles the advertising positions of the layout.
type AdSlotHandler struct {
	service       *services.AdSlotService
	authRequired  fiber.Handler
	adminRequired fiber.Handler
}

// NewAdSlotHandler creates a new AdSlotHandler.
func NewAdSlotHandler(service *services.AdSlotService, authRequired, adminRequired fiber.Handler) *AdSlotHandler {
	return &AdSlotHandler{
		service:       service,
		authRequired:  authRequired,
		adminRequired: adminRequired,
	}
}

// RegisterRoutes registers the ad slot routes with the Fiber app.
func (h *AdSlotHandler) RegisterRoutes(router fiber.Router) {
	slotRoutes := router.Group("/ad-slots")
	slotRoutes.Get("/active", h.HandleGetActiveSlots)
	slotRoutes.Get("/", h.authRequired, h.adminRequired, h.HandleGetAllSlots)
	slotRoutes.Put("/:id", h.authRequired, h.adminRequired, h.HandleUpdateSlot)
	slotRoutes.Post("/seed", h.authRequired, h.adminRequired, h.HandleSeedSlots)
}

// HandleGetActiveSlots lists enabled slots for the storefront,
// optionally filtered by ?position=.
func (h *AdSlotHandler) HandleGetActiveSlots(c *fiber.Ctx) error {
	slots, err := h.service.Active(c.Query("position"))
	if err != nil {
		log.Printf("Error getting active ad slots: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve ad slots",
			"error":   err.Error(),
		})
	}
	return c.JSON(slots)
}

// HandleGetAllSlots lists every slot for the admin dashboard.
func (h *AdSlotHandler) HandleGetAllSlots(c *fiber.Ctx) error {
	slots, err := h.service.All()
	if err != nil {
		log.Printf("Error getting ad slots: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve ad slots",
			"error":   err.Error(),
		})
	}
	return c.JSON(slots)
}

// HandleUpdateSlot applies a partial update to one slot.
func (h *AdSlotHandler) HandleUpdateSlot(c *fiber.Ctx) error {
	var update services.AdSlotUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	slotID := c.Params("id")
	slot, err := h.service.Update(slotID, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Ad slot not found",
			})
		}
		log.Printf("Error updating ad slot %s: %v", slotID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update ad slot",
			"error":   err.Error(),
		})
	}
	return c.JSON(slot)
}

// HandleSeedSlots creates the default layout slots. Repeating the call
// is rejected so slots are not duplicated.
func (h *AdSlotHandler) HandleSeedSlots(c *fiber.Ctx) error {
	slots, err := h.service.Seed()
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error seeding ad slots: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not seed ad slots",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(slots)
}
