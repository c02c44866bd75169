package models

import "gorm.io/gorm"

// Collection is a curated, site-wide set of products managed by admins,
// distinct from the per-user collections embedded on User.
type Collection struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" gorm:"uniqueIndex;type:varchar(150)" validate:"required,min=2,max=150"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage" validate:"required"`
	ProductIDs  []string `json:"products" gorm:"serializer:json"`
	gorm.Model
}
