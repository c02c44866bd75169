package models

import "time"

// AdSlot is a named advertising position in the storefront layout.
type AdSlot struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Position    string         `json:"position" gorm:"index;type:varchar(16)" validate:"required,oneof=header sidebar in-content footer"`
	IsActive    bool           `json:"isActive"`
	Description string         `json:"description"`
	Width       string         `json:"width" gorm:"type:varchar(16);default:100%"`
	Height      string         `json:"height" gorm:"type:varchar(16);default:auto"`
	Priority    int            `json:"priority"`
	Settings    map[string]any `json:"settings" gorm:"serializer:json"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
