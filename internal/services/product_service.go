package services

import (
	"fmt"

	"loja/internal/models"
	"loja/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product with its combo members
// expanded.
func (s *ProductService) GetProductByID(id string) (*models.Product, []models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	var members []models.Product
	if product.IsCombo && len(product.ComboProductIDs) > 0 {
		members, err = s.repo.GetByIDs(product.ComboProductIDs)
		if err != nil {
			return nil, nil, err
		}
	}
	return product, members, nil
}

// validateProduct checks the cross-field rules the schema cannot
// express: category presence and the non-combo download requirement.
func (s *ProductService) validateProduct(product *models.Product) error {
	if product.CategoryID == "" || product.CategoryID == "null" {
		return fmt.Errorf("%w: please select a category for the product", ErrValidation)
	}
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		return fmt.Errorf("%w: please select a valid category for the product", ErrValidation)
	}
	if !product.IsCombo && product.DownloadURL == "" {
		return fmt.Errorf("%w: the download file is required for non-combo products", ErrValidation)
	}
	return nil
}

// CreateProduct validates and creates a new catalog item.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(product)
}

// UpdateProduct validates and updates an existing catalog item.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID. Deleting a product does
// not cascade to collections or orders referencing it; orders keep
// their purchase-time snapshot.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// GetAllCategories retrieves all categories.
func (s *ProductService) GetAllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// CreateCategory creates a new category with a unique name.
func (s *ProductService) CreateCategory(category *models.Category) error {
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	return s.categoryRepo.Create(category)
}
