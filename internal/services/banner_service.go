package services

import (
	"fmt"
	"time"

	"loja/internal/models"
	"loja/internal/repositories"
)

// BannerService manages scheduled storefront banners.
type BannerService struct {
	repo repositories.BannerRepository
}

// NewBannerService creates a new BannerService.
func NewBannerService(repo repositories.BannerRepository) *BannerService {
	return &BannerService{repo: repo}
}

// Visible lists the banners currently servable to the storefront,
// optionally filtered by position.
func (s *BannerService) Visible(position string) ([]models.Banner, error) {
	return s.repo.GetVisible(position, time.Now())
}

// All lists every banner for the admin dashboard.
func (s *BannerService) All() ([]models.Banner, error) {
	return s.repo.GetAll()
}

// Create creates a new banner. Banners default to active with an open
// start date.
func (s *BannerService) Create(banner *models.Banner) error {
	if banner.Title == "" || banner.ImageURL == "" {
		return fmt.Errorf("%w: title and image are required", ErrValidation)
	}
	if banner.Position == "" {
		banner.Position = "hero"
	}
	return s.repo.Create(banner)
}

// Update updates an existing banner.
func (s *BannerService) Update(banner *models.Banner) error {
	return s.repo.Update(banner)
}

// Delete removes a banner.
func (s *BannerService) Delete(id string) error {
	return s.repo.Delete(id)
}

// GetByID retrieves one banner.
func (s *BannerService) GetByID(id string) (*models.Banner, error) {
	return s.repo.GetByID(id)
}
