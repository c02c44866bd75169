package repositories

import (
	"errors"
	"fmt"

	"loja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access. Orders
// are append-only: there is no update or delete.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByUserEmail(email string) ([]models.Order, error)
	GetPaidByUserEmail(email string) ([]models.Order, error)
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByUserEmail retrieves the buyer's orders, newest first.
func (r *GORMOrderRepository) GetByUserEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_email = ?", email).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for %s: %w", email, err)
	}
	return orders, nil
}

// GetPaidByUserEmail retrieves only the buyer's paid orders, newest
// first. The library endpoint derives purchased products from these.
func (r *GORMOrderRepository) GetPaidByUserEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_email = ? AND is_paid = ?", email, true).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get paid orders for %s: %w", email, err)
	}
	return orders, nil
}
