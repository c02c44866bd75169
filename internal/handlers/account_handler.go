package handlers

import (
	"errors"
	"log"

	"loja/internal/middleware"
	"loja/internal/repositories"
	"loja/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles the authenticated self-service routes:
// purchased library, wishlist, personal collections, download history
// and credential changes.
type AccountHandler struct {
	account      *services.AccountService
	orders       *services.OrderService
	authRequired fiber.Handler
	validate     *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(account *services.AccountService, orders *services.OrderService, authRequired fiber.Handler) *AccountHandler {
	return &AccountHandler{
		account:      account,
		orders:       orders,
		authRequired: authRequired,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the account routes with the Fiber app.
func (h *AccountHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist", h.authRequired)
	wishlistRoutes.Get("/", h.HandleGetWishlist)
	wishlistRoutes.Post("/:productId", h.HandleAddToWishlist)
	wishlistRoutes.Delete("/:productId", h.HandleRemoveFromWishlist)

	userRoutes := router.Group("/users", h.authRequired)
	userRoutes.Get("/library", h.HandleLibrary)

	userRoutes.Get("/collections", h.HandleGetCollections)
	userRoutes.Post("/collections", h.HandleCreateCollection)
	userRoutes.Put("/collections/:collectionId", h.HandleUpdateCollection)
	userRoutes.Delete("/collections/:collectionId", h.HandleDeleteCollection)

	userRoutes.Post("/downloads", h.HandleRecordDownload)

	userRoutes.Put("/update-email", h.HandleUpdateEmail)
	userRoutes.Put("/update-password", h.HandleUpdatePassword)
	userRoutes.Delete("/me", h.HandleDeleteAccount)
}

// HandleLibrary returns the distinct products the buyer has purchased.
func (h *AccountHandler) HandleLibrary(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	products, err := h.orders.Library(user.Email)
	if err != nil {
		log.Printf("Error building library for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve library",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetWishlist returns the wishlisted products, populated.
func (h *AccountHandler) HandleGetWishlist(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	products, err := h.account.Wishlist(user.ID)
	if err != nil {
		log.Printf("Error getting wishlist for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleAddToWishlist adds a product to the wishlist.
func (h *AccountHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	productID := c.Params("productId")
	user := middleware.CurrentUser(c)
	products, err := h.account.AddToWishlist(user.ID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error adding %s to wishlist of %s: %v", productID, user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleRemoveFromWishlist removes a product from the wishlist.
func (h *AccountHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	products, err := h.account.RemoveFromWishlist(user.ID, c.Params("productId"))
	if err != nil {
		log.Printf("Error removing from wishlist of %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetCollections returns the user's personal collections.
func (h *AccountHandler) HandleGetCollections(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	collections, err := h.account.Collections(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve collections",
			"error":   err.Error(),
		})
	}
	return c.JSON(collections)
}

// CreateCollectionRequest names a new personal collection.
type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required"`
}

// HandleCreateCollection adds a new empty personal collection.
func (h *AccountHandler) HandleCreateCollection(c *fiber.Ctx) error {
	var req CreateCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := middleware.CurrentUser(c)
	collections, err := h.account.CreateCollection(user.ID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error creating collection for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create collection",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(collections)
}

// UpdateCollectionRequest adds or removes one product.
type UpdateCollectionRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=add remove"`
}

// HandleUpdateCollection adds or removes a product in one personal
// collection.
func (h *AccountHandler) HandleUpdateCollection(c *fiber.Ctx) error {
	var req UpdateCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := middleware.CurrentUser(c)
	collections, err := h.account.UpdateCollection(user.ID, c.Params("collectionId"), req.ProductID, req.Action)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error updating collection for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update collection",
			"error":   err.Error(),
		})
	}
	return c.JSON(collections)
}

// HandleDeleteCollection removes one personal collection.
func (h *AccountHandler) HandleDeleteCollection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	collections, err := h.account.DeleteCollection(user.ID, c.Params("collectionId"))
	if err != nil {
		log.Printf("Error deleting collection for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete collection",
			"error":   err.Error(),
		})
	}
	return c.JSON(collections)
}

// DownloadRequest records one download.
type DownloadRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Version   string `json:"version"`
}

// HandleRecordDownload appends a download-history entry.
func (h *AccountHandler) HandleRecordDownload(c *fiber.Ctx) error {
	var req DownloadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := middleware.CurrentUser(c)
	if err := h.account.RecordDownload(user.ID, req.ProductID, req.Version); err != nil {
		log.Printf("Error recording download for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not record download",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Download recorded",
	})
}

// UpdateEmailRequest changes the account email.
type UpdateEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleUpdateEmail changes the account email after verifying the
// current password.
func (h *AccountHandler) HandleUpdateEmail(c *fiber.Ctx) error {
	var req UpdateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := middleware.CurrentUser(c)
	if err := h.account.UpdateEmail(user.ID, req.NewEmail, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Incorrect password",
			})
		}
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "This email is already in use",
			})
		}
		log.Printf("Error updating email for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update email",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Email updated successfully",
	})
}

// UpdatePasswordRequest changes the account password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// HandleUpdatePassword changes the password after verifying the
// current one.
func (h *AccountHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := middleware.CurrentUser(c)
	if err := h.account.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Incorrect current password",
			})
		}
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error updating password for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update password",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// HandleDeleteAccount removes the authenticated account.
func (h *AccountHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.account.DeleteAccount(user.ID); err != nil {
		log.Printf("Error deleting account %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete account",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}
