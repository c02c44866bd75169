package services

import (
	"fmt"

	"loja/internal/models"
	"loja/internal/repositories"
)

// CollectionService manages the curated, site-wide collections.
type CollectionService struct {
	repo        repositories.CollectionRepository
	productRepo repositories.ProductRepository
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(repo repositories.CollectionRepository, productRepo repositories.ProductRepository) *CollectionService {
	return &CollectionService{
		repo:        repo,
		productRepo: productRepo,
	}
}

// GetAll lists collections without expanding products, keeping the
// listing light.
func (s *CollectionService) GetAll() ([]models.Collection, error) {
	return s.repo.GetAll()
}

// GetByID retrieves one collection with its products expanded for the
// detail page.
func (s *CollectionService) GetByID(id string) (*models.Collection, []models.Product, error) {
	collection, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.productRepo.GetByIDs(collection.ProductIDs)
	if err != nil {
		return nil, nil, err
	}
	return collection, products, nil
}

// Create creates a new curated collection.
func (s *CollectionService) Create(collection *models.Collection) error {
	if collection.Name == "" || collection.CoverImage == "" {
		return fmt.Errorf("%w: name and cover image are required", ErrValidation)
	}
	return s.repo.Create(collection)
}

// Update updates an existing collection.
func (s *CollectionService) Update(collection *models.Collection) error {
	return s.repo.Update(collection)
}

// Delete removes a collection.
func (s *CollectionService) Delete(id string) error {
	return s.repo.Delete(id)
}
