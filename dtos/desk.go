package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderdesk-backend/cart"
)

type AddItemRequest struct {
	ProductID   int `json:"product_id" binding:"required,gt=0"`
	AttributeID int `json:"attribute_id" binding:"gte=0"`
}

type ChangeQuantityRequest struct {
	Direction string `json:"direction" binding:"required,oneof=increase decrease"`
}

type OpenPickerRequest struct {
	ProductID int `json:"product_id" binding:"required,gt=0"`
}

type ChooseAttributeRequest struct {
	AttributeID int `json:"attribute_id" binding:"required,gt=0"`
}

// SetCustomerRequest picks the customer. customer_id 0 clears the choice.
type SetCustomerRequest struct {
	CustomerID    int    `json:"customer_id" binding:"gte=0"`
	CustomerLabel string `json:"customer_label" binding:"max=255"`
}

// SetPaymentRequest updates any subset of the payment fields. The update is
// applied as a whole or not at all.
type SetPaymentRequest struct {
	PaymentMethodID *int             `json:"payment_method_id" binding:"omitempty,gt=0"`
	TransactionID   *string          `json:"transaction_id" binding:"omitempty,max=100"`
	PaidAmount      *decimal.Decimal `json:"paid_amount"`
}

type ProductSearchQuery struct {
	Search    string `form:"search" binding:"max=100"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=id name sku created_at"`
	Direction string `form:"direction" binding:"omitempty,oneof=asc desc"`
	PerPage   int    `form:"per_page" binding:"omitempty,gte=1,lte=100"`
	Page      int    `form:"page" binding:"omitempty,gte=1"`
}

type SubmissionListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=succeeded failed"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=200"`
}

type SessionResponse struct {
	ID        uuid.UUID  `json:"id"`
	ShopID    int        `json:"shop_id"`
	CreatedAt time.Time  `json:"created_at"`
	State     cart.State `json:"state"`
}

type QuantityResponse struct {
	Changed bool       `json:"changed"`
	State   cart.State `json:"state"`
}

type SubmitResponse struct {
	OrderID  int    `json:"order_id"`
	Redirect string `json:"redirect"`
	Message  string `json:"message,omitempty"`
}
