package models

import "time"

// Transaction types.
const (
	TxPayment    = "PAYMENT"
	TxRefund     = "REFUND"
	TxCommission = "COMMISSION"
	TxCredit     = "CREDIT"
)

// Transaction statuses.
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

// TransactionLog is an immutable audit record of a monetary event.
// There is deliberately no update path anywhere in the code: the
// repository exposes only Create and reads, and the HTTP layer rejects
// every update verb.
type TransactionLog struct {
	ID                  string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Type                string         `json:"type" gorm:"index;type:varchar(16)" validate:"required,oneof=PAYMENT REFUND COMMISSION CREDIT"`
	Amount              float64        `json:"amount" validate:"required,gt=0"`
	Currency            string         `json:"currency" gorm:"type:varchar(8);default:BRL"`
	OrderID             string         `json:"orderId" gorm:"index;type:varchar(36)"`
	UserEmail           string         `json:"userEmail" gorm:"index;type:varchar(255)" validate:"required,email"`
	StripeSessionID     string         `json:"stripeSessionId" gorm:"index;type:varchar(255)"`
	StripeTransactionID string         `json:"stripeTransactionId" gorm:"type:varchar(255)"`
	PaymentMethod       string         `json:"paymentMethod" gorm:"type:varchar(16)" validate:"omitempty,oneof=card pix manual other"`
	Status              string         `json:"status" gorm:"type:varchar(16);default:completed" validate:"omitempty,oneof=pending completed failed cancelled"`
	Description         string         `json:"description"`
	Metadata            map[string]any `json:"metadata" gorm:"serializer:json"`
	CreatedBy           string         `json:"createdBy" gorm:"type:varchar(255);default:system"`
	CreatedAt           time.Time      `json:"createdAt" gorm:"index"`
}
