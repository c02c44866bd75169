package models

import "time"

// OrderItem is a purchase-time snapshot of one cart line. Price and
// download URL are captured from the product record during fulfillment.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	DownloadURL string  `json:"downloadUrl"`
}

// Order is the durable record of a completed purchase. Orders are
// created exactly once by the fulfillment pipeline and never mutated.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserEmail       string      `json:"userEmail" gorm:"index;type:varchar(255)" validate:"required,email"`
	Items           []OrderItem `json:"items" gorm:"serializer:json"`
	TotalPrice      float64     `json:"totalPrice"`
	StripeSessionID string      `json:"stripeSessionId" gorm:"index;type:varchar(255)"`
	IsPaid          bool        `json:"isPaid"`
	PaidAt          *time.Time  `json:"paidAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
