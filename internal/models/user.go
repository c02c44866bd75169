package models

import "time"

// UserCollection is a user-owned named list of products, stored as an
// embedded document on the user record.
type UserCollection struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ProductIDs []string  `json:"products"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DownloadRecord is one entry in a user's download history.
type DownloadRecord struct {
	ProductID    string    `json:"product"`
	Version      string    `json:"version"`
	DownloadedAt time.Time `json:"downloadedAt"`
}

// User is a store account. Password is optional to support social
// login; when present it always holds a bcrypt hash, never clear text.
type User struct {
	ID                  string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email               string           `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password            string           `json:"-" gorm:"type:varchar(255)"`
	GoogleID            string           `json:"-" gorm:"index;type:varchar(64)"`
	FacebookID          string           `json:"-" gorm:"index;type:varchar(64)"`
	IsAdmin             bool             `json:"isAdmin"`
	ResetPasswordToken  string           `json:"-" gorm:"index;type:varchar(64)"`
	ResetPasswordExpire *time.Time       `json:"-"`
	Collections         []UserCollection `json:"collections" gorm:"serializer:json"`
	DownloadHistory     []DownloadRecord `json:"downloadHistory" gorm:"serializer:json"`
	Wishlist            []string         `json:"wishlist" gorm:"serializer:json"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// LinkedProviders lists the sign-in methods attached to the account.
func (u *User) LinkedProviders() []string {
	var providers []string
	if u.GoogleID != "" {
		providers = append(providers, "google")
	}
	if u.FacebookID != "" {
		providers = append(providers, "facebook")
	}
	if u.Password != "" {
		providers = append(providers, "email")
	}
	return providers
}

// InWishlist reports whether the product is already wishlisted.
func (u *User) InWishlist(productID string) bool {
	for _, id := range u.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}
