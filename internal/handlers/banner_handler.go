package handlers

import (
	"errors"
	"log"

	"loja/internal/models"
	"loja/internal/repositories"
	"loja/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BannerHandler handles the scheduled storefront banners.
type BannerHandler struct {
	service       *services.BannerService
	authRequired  fiber.Handler
	adminRequired fiber.Handler
}

// NewBannerHandler creates a new BannerHandler.
func NewBannerHandler(service *services.BannerService, authRequired, adminRequired fiber.Handler) *BannerHandler {
	return &BannerHandler{
		service:       service,
		authRequired:  authRequired,
		adminRequired: adminRequired,
	}
}

// RegisterRoutes registers the banner routes with the Fiber app.
func (h *BannerHandler) RegisterRoutes(router fiber.Router) {
	bannerRoutes := router.Group("/banners")
	bannerRoutes.Get("/", h.HandleGetVisibleBanners)
	bannerRoutes.Get("/admin", h.authRequired, h.adminRequired, h.HandleGetAllBanners)
	bannerRoutes.Post("/", h.authRequired, h.adminRequired, h.HandleCreateBanner)
	bannerRoutes.Put("/:id", h.authRequired, h.adminRequired, h.HandleUpdateBanner)
	bannerRoutes.Delete("/:id", h.authRequired, h.adminRequired, h.HandleDeleteBanner)
}

// HandleGetVisibleBanners lists the banners the storefront may show
// right now, optionally filtered by ?position=.
func (h *BannerHandler) HandleGetVisibleBanners(c *fiber.Ctx) error {
	banners, err := h.service.Visible(c.Query("position"))
	if err != nil {
		log.Printf("Error getting visible banners: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve banners",
			"error":   err.Error(),
		})
	}
	return c.JSON(banners)
}

// HandleGetAllBanners lists every banner for the admin dashboard,
// scheduled and expired included.
func (h *BannerHandler) HandleGetAllBanners(c *fiber.Ctx) error {
	banners, err := h.service.All()
	if err != nil {
		log.Printf("Error getting banners: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve banners",
			"error":   err.Error(),
		})
	}
	return c.JSON(banners)
}

// HandleCreateBanner creates a banner.
func (h *BannerHandler) HandleCreateBanner(c *fiber.Ctx) error {
	var banner models.Banner
	if err := c.BodyParser(&banner); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.Create(&banner); err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error creating banner: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create banner",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(banner)
}

// HandleUpdateBanner updates a banner.
func (h *BannerHandler) HandleUpdateBanner(c *fiber.Ctx) error {
	var banner models.Banner
	if err := c.BodyParser(&banner); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	banner.ID = c.Params("id")

	if err := h.service.Update(&banner); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Banner not found",
			})
		}
		log.Printf("Error updating banner %s: %v", banner.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update banner",
			"error":   err.Error(),
		})
	}
	return c.JSON(banner)
}

// HandleDeleteBanner removes a banner.
func (h *BannerHandler) HandleDeleteBanner(c *fiber.Ctx) error {
	bannerID := c.Params("id")
	if err := h.service.Delete(bannerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Banner not found",
			})
		}
		log.Printf("Error deleting banner %s: %v", bannerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete banner",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Banner removed",
	})
}
