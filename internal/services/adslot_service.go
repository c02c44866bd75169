package services

import (
	"fmt"

	"loja/internal/models"
	"loja/internal/repositories"
)

// AdSlotService manages the advertising positions of the layout.
type AdSlotService struct {
	repo repositories.AdSlotRepository
}

// NewAdSlotService creates a new AdSlotService.
func NewAdSlotService(repo repositories.AdSlotRepository) *AdSlotService {
	return &AdSlotService{repo: repo}
}

// All lists every slot ordered by position then priority.
func (s *AdSlotService) All() ([]models.AdSlot, error) {
	return s.repo.GetAll()
}

// Active lists enabled slots by priority, optionally for one position.
func (s *AdSlotService) Active(position string) ([]models.AdSlot, error) {
	return s.repo.GetActive(position)
}

// AdSlotUpdate carries the partial update an admin may apply. Only the
// allowed fields are touched; name and position are fixed at seeding.
type AdSlotUpdate struct {
	IsActive    *bool          `json:"isActive"`
	Description string         `json:"description"`
	Width       string         `json:"width"`
	Height      string         `json:"height"`
	Priority    *int           `json:"priority"`
	Settings    map[string]any `json:"settings"`
}

// Update applies a partial update to one slot.
func (s *AdSlotService) Update(id string, update AdSlotUpdate) (*models.AdSlot, error) {
	slot, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if update.IsActive != nil {
		slot.IsActive = *update.IsActive
	}
	if update.Description != "" {
		slot.Description = update.Description
	}
	if update.Width != "" {
		slot.Width = update.Width
	}
	if update.Height != "" {
		slot.Height = update.Height
	}
	if update.Priority != nil {
		slot.Priority = *update.Priority
	}
	if update.Settings != nil {
		if slot.Settings == nil {
			slot.Settings = make(map[string]any)
		}
		for k, v := range update.Settings {
			slot.Settings[k] = v
		}
	}
	if err := s.repo.Update(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// Seed populates the default layout slots once. Seeding twice is an
// error so slots are not duplicated.
func (s *AdSlotService) Seed() ([]models.AdSlot, error) {
	existing, err := s.repo.Count()
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: ad slots were already seeded", ErrValidation)
	}

	slots := []models.AdSlot{
		{Name: "Header Top Banner", Position: "header", Description: "Banner at the top of the header", Width: "100%", Height: "90px", Priority: 10},
		{Name: "Sidebar Ad", Position: "sidebar", Description: "Ad in the sidebar", Width: "300px", Height: "250px", Priority: 5},
		{Name: "In-Content Banner", Position: "in-content", Description: "Banner inside the content", Width: "100%", Height: "200px", Priority: 7},
		{Name: "Footer Banner", Position: "footer", Description: "Banner in the footer", Width: "100%", Height: "100px", Priority: 3},
	}
	if err := s.repo.CreateMany(slots); err != nil {
		return nil, err
	}
	return slots, nil
}
