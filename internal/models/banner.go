package models

import "time"

// Banner is a scheduled promotional image shown on the storefront.
// Public listings only return banners that are active and inside their
// start/end window.
type Banner struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     string     `json:"title" validate:"required"`
	ImageURL  string     `json:"imageUrl" validate:"required"`
	LinkURL   string     `json:"linkUrl"`
	Position  string     `json:"position" gorm:"type:varchar(16);default:hero" validate:"omitempty,oneof=hero sidebar footer"`
	Active    bool       `json:"active"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// VisibleAt reports whether the banner should be served at the given
// instant.
func (b *Banner) VisibleAt(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.StartDate != nil && b.StartDate.After(now) {
		return false
	}
	if b.EndDate != nil && b.EndDate.Before(now) {
		return false
	}
	return true
}
