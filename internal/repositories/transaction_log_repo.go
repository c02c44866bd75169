package repositories

import (
	"fmt"
	"time"

	"loja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionLogFilter narrows ledger queries. Zero values mean "no
// filter" for that field.
type TransactionLogFilter struct {
	Type      string
	UserEmail string // substring match
	StartDate *time.Time
	EndDate   *time.Time
}

// TypeTotal is the aggregate of one transaction type.
type TypeTotal struct {
	Type  string  `json:"type"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// TransactionLogRepository is the data access surface for the ledger.
// It intentionally has no update or delete methods: ledger entries are
// immutable once written.
type TransactionLogRepository interface {
	Create(log *models.TransactionLog) error
	List(filter TransactionLogFilter, page, limit int) ([]models.TransactionLog, int64, error)
	ListAll(filter TransactionLogFilter) ([]models.TransactionLog, error)
	TotalsByType(filter TransactionLogFilter) ([]TypeTotal, error)
}

// GORMTransactionLogRepository is a GORM implementation of
// TransactionLogRepository.
type GORMTransactionLogRepository struct {
	db *gorm.DB
}

// NewGORMTransactionLogRepository creates a new instance of
// GORMTransactionLogRepository.
func NewGORMTransactionLogRepository(db *gorm.DB) *GORMTransactionLogRepository {
	return &GORMTransactionLogRepository{db: db}
}

// Create writes a new ledger entry.
func (r *GORMTransactionLogRepository) Create(log *models.TransactionLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create transaction log: %w", err)
	}
	return nil
}

func (r *GORMTransactionLogRepository) filtered(filter TransactionLogFilter) *gorm.DB {
	q := r.db.Model(&models.TransactionLog{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.UserEmail != "" {
		q = q.Where("user_email LIKE ?", "%"+filter.UserEmail+"%")
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}
	return q
}

// List returns one page of ledger entries, newest first, plus the total
// count matching the filter.
func (r *GORMTransactionLogRepository) List(filter TransactionLogFilter, page, limit int) ([]models.TransactionLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transaction logs: %w", err)
	}
	var logs []models.TransactionLog
	err := r.filtered(filter).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transaction logs: %w", err)
	}
	return logs, total, nil
}

// ListAll returns every ledger entry matching the filter, newest first.
// Used for CSV export.
func (r *GORMTransactionLogRepository) ListAll(filter TransactionLogFilter) ([]models.TransactionLog, error) {
	var logs []models.TransactionLog
	if err := r.filtered(filter).Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transaction logs: %w", err)
	}
	return logs, nil
}

// TotalsByType aggregates amount and count per transaction type.
func (r *GORMTransactionLogRepository) TotalsByType(filter TransactionLogFilter) ([]TypeTotal, error) {
	var totals []TypeTotal
	err := r.filtered(filter).
		Select("type, SUM(amount) as total, COUNT(*) as count").
		Group("type").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transaction logs: %w", err)
	}
	return totals, nil
}
