package repositories

import (
	"errors"
	"fmt"

	"loja/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionRepository defines the interface for curated collection
// data access.
type CollectionRepository interface {
	GetAll() ([]models.Collection, error)
	GetByID(id string) (*models.Collection, error)
	Create(collection *models.Collection) error
	Update(collection *models.Collection) error
	Delete(id string) error
}

// GORMCollectionRepository is a GORM implementation of CollectionRepository.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{db: db}
}

// GetAll retrieves all curated collections.
func (r *GORMCollectionRepository) GetAll() ([]models.Collection, error) {
	var collections []models.Collection
	if err := r.db.Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to get all collections: %w", err)
	}
	return collections, nil
}

// GetByID retrieves a single collection by its ID.
func (r *GORMCollectionRepository) GetByID(id string) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("collection %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collection by ID %s: %w", id, err)
	}
	return &collection, nil
}

// Create creates a new collection.
func (r *GORMCollectionRepository) Create(collection *models.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.New().String()
	}
	var existing int64
	r.db.Model(&models.Collection{}).Where("name = ?", collection.Name).Count(&existing)
	if existing > 0 {
		return fmt.Errorf("collection %q: %w", collection.Name, ErrDuplicate)
	}
	if err := r.db.Create(collection).Error; err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Update updates an existing collection.
func (r *GORMCollectionRepository) Update(collection *models.Collection) error {
	res := r.db.Save(collection)
	if res.Error != nil {
		return fmt.Errorf("failed to update collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collection %s: %w", collection.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a collection by its ID.
func (r *GORMCollectionRepository) Delete(id string) error {
	res := r.db.Delete(&models.Collection{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	return nil
}
