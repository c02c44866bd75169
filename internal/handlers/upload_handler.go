package handlers

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadHandler stores admin-uploaded assets (product images, download
// archives, banner art) under the upload directory served at /uploads.
type UploadHandler struct {
	uploadDir     string
	authRequired  fiber.Handler
	adminRequired fiber.Handler
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadDir string, authRequired, adminRequired fiber.Handler) *UploadHandler {
	return &UploadHandler{
		uploadDir:     uploadDir,
		authRequired:  authRequired,
		adminRequired: adminRequired,
	}
}

// RegisterRoutes registers the upload route with the Fiber app.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.authRequired, h.adminRequired, h.HandleUpload)
}

// HandleUpload saves one multipart file under a random name, keeping
// only the original extension, and returns its public path.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file was uploaded",
			"error":   err.Error(),
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.New().String() + ext
	dest := filepath.Join(h.uploadDir, name)

	if err := c.SaveFile(file, dest); err != nil {
		log.Printf("Error saving upload %s: %v", file.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save the file",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "File uploaded successfully",
		"filePath": fmt.Sprintf("/uploads/%s", name),
	})
}
