package repositories

import (
	"errors"
	"fmt"
	"time"

	"loja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BannerRepository defines the interface for banner data access.
type BannerRepository interface {
	GetAll() ([]models.Banner, error)
	GetVisible(position string, now time.Time) ([]models.Banner, error)
	GetByID(id string) (*models.Banner, error)
	Create(banner *models.Banner) error
	Update(banner *models.Banner) error
	Delete(id string) error
}

// GORMBannerRepository is a GORM implementation of BannerRepository.
type GORMBannerRepository struct {
	db *gorm.DB
}

// NewGORMBannerRepository creates a new instance of GORMBannerRepository.
func NewGORMBannerRepository(db *gorm.DB) *GORMBannerRepository {
	return &GORMBannerRepository{db: db}
}

// GetAll retrieves every banner, newest first. Admin listing.
func (r *GORMBannerRepository) GetAll() ([]models.Banner, error) {
	var banners []models.Banner
	if err := r.db.Order("created_at desc").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to get all banners: %w", err)
	}
	return banners, nil
}

// GetVisible retrieves active banners inside their scheduling window,
// optionally restricted to one position.
func (r *GORMBannerRepository) GetVisible(position string, now time.Time) ([]models.Banner, error) {
	q := r.db.Where("active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now)
	if position != "" {
		q = q.Where("position = ?", position)
	}
	var banners []models.Banner
	if err := q.Order("created_at desc").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to get visible banners: %w", err)
	}
	return banners, nil
}

// GetByID retrieves a single banner by its ID.
func (r *GORMBannerRepository) GetByID(id string) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("banner %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get banner by ID %s: %w", id, err)
	}
	return &banner, nil
}

// Create creates a new banner.
func (r *GORMBannerRepository) Create(banner *models.Banner) error {
	if banner.ID == "" {
		banner.ID = uuid.New().String()
	}
	if err := r.db.Create(banner).Error; err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}
	return nil
}

// Update updates an existing banner.
func (r *GORMBannerRepository) Update(banner *models.Banner) error {
	res := r.db.Save(banner)
	if res.Error != nil {
		return fmt.Errorf("failed to update banner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("banner %s: %w", banner.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a banner by its ID.
func (r *GORMBannerRepository) Delete(id string) error {
	res := r.db.Delete(&models.Banner{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete banner: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("banner %s: %w", id, ErrNotFound)
	}
	return nil
}
