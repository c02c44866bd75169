package repositories

import (
	"errors"
	"fmt"

	"loja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdSlotRepository defines the interface for ad slot data access.
type AdSlotRepository interface {
	GetAll() ([]models.AdSlot, error)
	GetActive(position string) ([]models.AdSlot, error)
	GetByID(id string) (*models.AdSlot, error)
	Count() (int64, error)
	Create(slot *models.AdSlot) error
	CreateMany(slots []models.AdSlot) error
	Update(slot *models.AdSlot) error
}

// GORMAdSlotRepository is a GORM implementation of AdSlotRepository.
type GORMAdSlotRepository struct {
	db *gorm.DB
}

// NewGORMAdSlotRepository creates a new instance of GORMAdSlotRepository.
func NewGORMAdSlotRepository(db *gorm.DB) *GORMAdSlotRepository {
	return &GORMAdSlotRepository{db: db}
}

// GetAll retrieves all ad slots ordered by position then priority.
func (r *GORMAdSlotRepository) GetAll() ([]models.AdSlot, error) {
	var slots []models.AdSlot
	if err := r.db.Order("position asc, priority desc").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to get all ad slots: %w", err)
	}
	return slots, nil
}

// GetActive retrieves active slots by descending priority, optionally
// restricted to one position.
func (r *GORMAdSlotRepository) GetActive(position string) ([]models.AdSlot, error) {
	q := r.db.Where("is_active = ?", true)
	if position != "" {
		q = q.Where("position = ?", position)
	}
	var slots []models.AdSlot
	if err := q.Order("priority desc").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to get active ad slots: %w", err)
	}
	return slots, nil
}

// GetByID retrieves a single ad slot by its ID.
func (r *GORMAdSlotRepository) GetByID(id string) (*models.AdSlot, error) {
	var slot models.AdSlot
	if err := r.db.First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ad slot %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ad slot by ID %s: %w", id, err)
	}
	return &slot, nil
}

// Count returns how many slots exist. Used to guard seeding.
func (r *GORMAdSlotRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.AdSlot{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count ad slots: %w", err)
	}
	return n, nil
}

// Create creates a new ad slot.
func (r *GORMAdSlotRepository) Create(slot *models.AdSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if err := r.db.Create(slot).Error; err != nil {
		return fmt.Errorf("failed to create ad slot: %w", err)
	}
	return nil
}

// CreateMany inserts a batch of slots.
func (r *GORMAdSlotRepository) CreateMany(slots []models.AdSlot) error {
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.New().String()
		}
	}
	if err := r.db.Create(&slots).Error; err != nil {
		return fmt.Errorf("failed to create ad slots: %w", err)
	}
	return nil
}

// Update updates an existing ad slot.
func (r *GORMAdSlotRepository) Update(slot *models.AdSlot) error {
	res := r.db.Save(slot)
	if res.Error != nil {
		return fmt.Errorf("failed to update ad slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ad slot %s: %w", slot.ID, ErrNotFound)
	}
	return nil
}
