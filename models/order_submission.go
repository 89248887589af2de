package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"orderdesk-backend/cart"
)

type SubmissionStatus string

const (
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"
)

const maxErrorLength = 500

// OrderSubmission is the audit record of one attempt to create an order in the
// back office. OrderID is 0 for failed attempts.
type OrderSubmission struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"session_id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	ShopID          int              `gorm:"not null;index" json:"shop_id"`
	CustomerID      int              `gorm:"not null" json:"customer_id"`
	OrderID         int              `gorm:"default:0" json:"order_id"`
	TotalItems      int              `gorm:"not null" json:"total_items"`
	Payable         decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"payable"`
	PaidAmount      decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"paid_amount"`
	DueAmount       decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"due_amount"`
	PaymentMethodID int              `gorm:"not null" json:"payment_method_id"`
	Status          SubmissionStatus `gorm:"not null;index" json:"status"`
	Error           string           `json:"error,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewOrderSubmission snapshots the payload that is about to be sent.
func NewOrderSubmission(sessionID, userID uuid.UUID, sub cart.Submission) *OrderSubmission {
	s := sub.OrderSummary
	return &OrderSubmission{
		SessionID:       sessionID,
		UserID:          userID,
		ShopID:          sub.ShopID,
		CustomerID:      s.CustomerID,
		TotalItems:      s.TotalItems,
		Payable:         s.Payable,
		PaidAmount:      s.PaidAmount,
		DueAmount:       s.DueAmount,
		PaymentMethodID: s.PaymentMethodID,
	}
}

func (o *OrderSubmission) MarkSucceeded(orderID int) {
	o.Status = SubmissionSucceeded
	o.OrderID = orderID
	o.Error = ""
}

func (o *OrderSubmission) MarkFailed(err error) {
	o.Status = SubmissionFailed
	o.OrderID = 0
	msg := err.Error()
	if len(msg) > maxErrorLength {
		msg = msg[:maxErrorLength]
	}
	o.Error = msg
}

func (o *OrderSubmission) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
