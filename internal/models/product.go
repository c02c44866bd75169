package models

import "gorm.io/gorm"

// Product is a catalog item: a downloadable art file, or a combo that
// bundles other products. Non-combo products must carry a download URL;
// that rule is enforced by the product service before any write.
type Product struct {
	ID              string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductName     string   `json:"productName" validate:"required,min=2,max=200"`
	Description     string   `json:"description" validate:"omitempty,max=2000"`
	Price           float64  `json:"price" validate:"required,gt=0"`
	CategoryID      string   `json:"category" validate:"required"`
	ImageURLs       []string `json:"imageUrls" gorm:"serializer:json" validate:"required,min=1"`
	DownloadURL     string   `json:"downloadUrl"`
	IsCombo         bool     `json:"isCombo"`
	ComboProductIDs []string `json:"comboProducts" gorm:"serializer:json"`
	gorm.Model      // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Category groups products. Names are unique.
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	gorm.Model
}
