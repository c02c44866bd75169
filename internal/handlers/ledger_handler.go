package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"loja/internal/middleware"
	"loja/internal/models"
	"loja/internal/repositories"
	"loja/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LedgerHandler exposes the transaction log to the back office. Every
// route is admin only, and every mutating verb on an existing entry is
// rejected: the ledger is append only.
type LedgerHandler struct {
	service       *services.LedgerService
	authRequired  fiber.Handler
	adminRequired fiber.Handler
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(service *services.LedgerService, authRequired, adminRequired fiber.Handler) *LedgerHandler {
	return &LedgerHandler{
		service:       service,
		authRequired:  authRequired,
		adminRequired: adminRequired,
	}
}

// RegisterRoutes registers the ledger routes with the Fiber app.
func (h *LedgerHandler) RegisterRoutes(router fiber.Router) {
	ledgerRoutes := router.Group("/transaction-logs", h.authRequired, h.adminRequired)
	ledgerRoutes.Get("/", h.HandleListTransactions)
	ledgerRoutes.Get("/stats", h.HandleStats)
	ledgerRoutes.Get("/export", h.HandleExportCSV)
	ledgerRoutes.Post("/", h.HandleCreateManual)

	// The update verbs exist only to answer: ledger entries cannot be
	// changed.
	ledgerRoutes.Put("/:id", h.HandleRejectMutation)
	ledgerRoutes.Patch("/:id", h.HandleRejectMutation)
	ledgerRoutes.Delete("/:id", h.HandleRejectMutation)
}

// parseLedgerFilter reads the shared query filters. Dates use the
// YYYY-MM-DD form; the end date is inclusive of the whole day.
func parseLedgerFilter(c *fiber.Ctx) (repositories.TransactionLogFilter, error) {
	filter := repositories.TransactionLogFilter{
		Type:      c.Query("type"),
		UserEmail: c.Query("email"),
	}
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate %q", raw)
		}
		filter.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate %q", raw)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	return filter, nil
}

// HandleListTransactions lists one filtered, paginated page of entries.
func (h *LedgerHandler) HandleListTransactions(c *fiber.Ctx) error {
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	page, err := h.service.List(filter, c.QueryInt("page", 1), c.QueryInt("limit", 50))
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve transactions",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleStats aggregates totals per type plus income, outcome and net
// balance.
func (h *LedgerHandler) HandleStats(c *fiber.Ctx) error {
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	stats, err := h.service.Stats(filter)
	if err != nil {
		log.Printf("Error computing transaction stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute stats",
			"error":   err.Error(),
		})
	}
	return c.JSON(stats)
}

// HandleExportCSV streams every matching entry as a CSV download.
func (h *LedgerHandler) HandleExportCSV(c *fiber.Ctx) error {
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	data, err := h.service.ExportCSV(filter)
	if err != nil {
		log.Printf("Error exporting transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not export transactions",
			"error":   err.Error(),
		})
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

// HandleCreateManual writes an admin-authored entry (credits, manual
// adjustments). The author is recorded on the entry.
func (h *LedgerHandler) HandleCreateManual(c *fiber.Ctx) error {
	var entry models.TransactionLog
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	admin := middleware.CurrentUser(c)
	if err := h.service.CreateManual(&entry, admin.Email); err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error creating manual transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create transaction",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleRejectMutation answers every attempt to change an existing
// entry with 405.
func (h *LedgerHandler) HandleRejectMutation(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"message": services.ErrImmutable.Error(),
	})
}
