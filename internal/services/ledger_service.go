package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"loja/internal/models"
	"loja/internal/repositories"
)

// LedgerService exposes the immutable transaction log: system entries
// written by fulfillment, manual admin entries, filtered listings,
// financial stats and CSV export. Any update attempt is rejected with
// ErrImmutable.
type LedgerService struct {
	repo repositories.TransactionLogRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repo repositories.TransactionLogRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

// LedgerPage is one page of entries plus pagination info.
type LedgerPage struct {
	Logs  []models.TransactionLog `json:"logs"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
	Total int64                   `json:"total"`
	Pages int64                   `json:"pages"`
}

// List returns one filtered page, newest first.
func (s *LedgerService) List(filter repositories.TransactionLogFilter, page, limit int) (*LedgerPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	logs, total, err := s.repo.List(filter, page, limit)
	if err != nil {
		return nil, err
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return &LedgerPage{Logs: logs, Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// LedgerStats summarizes the ledger per type together with overall
// income, outcome and net balance.
type LedgerStats struct {
	Stats   []repositories.TypeTotal `json:"stats"`
	Summary struct {
		TotalIncome  float64 `json:"totalIncome"`
		TotalOutcome float64 `json:"totalOutcome"`
		NetBalance   float64 `json:"netBalance"`
	} `json:"summary"`
}

// Stats aggregates totals per transaction type. Payments and credits
// count as income, refunds and commissions as outcome.
func (s *LedgerService) Stats(filter repositories.TransactionLogFilter) (*LedgerStats, error) {
	totals, err := s.repo.TotalsByType(filter)
	if err != nil {
		return nil, err
	}
	stats := &LedgerStats{Stats: totals}
	for _, t := range totals {
		switch t.Type {
		case models.TxPayment, models.TxCredit:
			stats.Summary.TotalIncome += t.Total
		case models.TxRefund, models.TxCommission:
			stats.Summary.TotalOutcome += t.Total
		}
	}
	stats.Summary.NetBalance = stats.Summary.TotalIncome - stats.Summary.TotalOutcome
	return stats, nil
}

// ExportCSV renders every matching entry as CSV for download.
func (s *LedgerService) ExportCSV(filter repositories.TransactionLogFilter) ([]byte, error) {
	logs, err := s.repo.ListAll(filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"Date", "Type", "Amount", "Currency", "Email", "Method", "Status", "Description", "Session ID"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range logs {
		record := []string{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Type,
			strconv.FormatFloat(entry.Amount, 'f', 2, 64),
			entry.Currency,
			entry.UserEmail,
			orNA(entry.PaymentMethod),
			entry.Status,
			orNA(entry.Description),
			orNA(entry.StripeSessionID),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// CreateManual writes an admin-authored entry (credits, adjustments).
func (s *LedgerService) CreateManual(entry *models.TransactionLog, adminEmail string) error {
	if entry.Type == "" || entry.Amount <= 0 || entry.UserEmail == "" {
		return fmt.Errorf("%w: type, amount and email are required", ErrValidation)
	}
	entry.PaymentMethod = "manual"
	entry.Status = models.TxStatusCompleted
	entry.CreatedBy = adminEmail
	if entry.Currency == "" {
		entry.Currency = "BRL"
	}
	return s.repo.Create(entry)
}

// Update rejects every mutation of an existing entry. The repository
// has no update path either; this is the explicit contract surface.
func (s *LedgerService) Update(string) error {
	return ErrImmutable
}

// Delete rejects removal of an existing entry.
func (s *LedgerService) Delete(string) error {
	return ErrImmutable
}
