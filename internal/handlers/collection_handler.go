package handlers

import (
	"errors"
	"log"

	"loja/internal/models"
	"loja/internal/repositories"
	"loja/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CollectionHandler handles the curated site-wide collections.
type CollectionHandler struct {
	service       *services.CollectionService
	authRequired  fiber.Handler
	adminRequired fiber.Handler
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service *services.CollectionService, authRequired, adminRequired fiber.Handler) *CollectionHandler {
	return &CollectionHandler{
		service:       service,
		authRequired:  authRequired,
		adminRequired: adminRequired,
	}
}

// RegisterRoutes registers the collection routes with the Fiber app.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	collectionRoutes := router.Group("/collections")
	collectionRoutes.Get("/", h.HandleGetCollections)
	collectionRoutes.Get("/:id", h.HandleGetCollectionByID)
	collectionRoutes.Post("/", h.authRequired, h.adminRequired, h.HandleCreateCollection)
	collectionRoutes.Put("/:id", h.authRequired, h.adminRequired, h.HandleUpdateCollection)
	collectionRoutes.Delete("/:id", h.authRequired, h.adminRequired, h.HandleDeleteCollection)
}

// HandleGetCollections lists collections without expanding products.
func (h *CollectionHandler) HandleGetCollections(c *fiber.Ctx) error {
	collections, err := h.service.GetAll()
	if err != nil {
		log.Printf("Error getting collections: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve collections",
			"error":   err.Error(),
		})
	}
	return c.JSON(collections)
}

// HandleGetCollectionByID returns one collection with its products
// expanded.
func (h *CollectionHandler) HandleGetCollectionByID(c *fiber.Ctx) error {
	collectionID := c.Params("id")
	collection, products, err := h.service.GetByID(collectionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		log.Printf("Error getting collection %s: %v", collectionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve collection",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"collection": collection,
		"products":   products,
	})
}

// HandleCreateCollection creates a curated collection.
func (h *CollectionHandler) HandleCreateCollection(c *fiber.Ctx) error {
	var collection models.Collection
	if err := c.BodyParser(&collection); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.Create(&collection); err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error creating collection: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create collection",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// HandleUpdateCollection updates a curated collection.
func (h *CollectionHandler) HandleUpdateCollection(c *fiber.Ctx) error {
	var collection models.Collection
	if err := c.BodyParser(&collection); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	collection.ID = c.Params("id")

	if err := h.service.Update(&collection); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		log.Printf("Error updating collection %s: %v", collection.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update collection",
			"error":   err.Error(),
		})
	}
	return c.JSON(collection)
}

// HandleDeleteCollection removes a curated collection.
func (h *CollectionHandler) HandleDeleteCollection(c *fiber.Ctx) error {
	collectionID := c.Params("id")
	if err := h.service.Delete(collectionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		log.Printf("Error deleting collection %s: %v", collectionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete collection",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Collection removed",
	})
}
