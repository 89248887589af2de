package cart

import "errors"

// Domain-rule rejections. None of these are fatal; the caller surfaces them as
// inline state and the operator fixes the draft and tries again.
var (
	ErrLineNotFound           = errors.New("line item not found")
	ErrInvalidDirection       = errors.New("direction must be increase or decrease")
	ErrAttributeRequired      = errors.New("attribute selection required")
	ErrUnknownAttribute       = errors.New("attribute does not belong to product")
	ErrNoAttributes           = errors.New("product has no attribute variants")
	ErrPickerClosed           = errors.New("no attribute picker is open")
	ErrUnknownOperator        = errors.New("unknown attribute price operator")
	ErrNegativePrice          = errors.New("adjusted unit price is negative")
	ErrPaidOutOfRange         = errors.New("paid amount must be between 0 and payable")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrTransactionRequired    = errors.New("transaction id is required for non-cash payment")
	ErrTransactionNotEditable = errors.New("transaction id is not used for cash payment")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrNoCustomer             = errors.New("no customer selected")
	ErrSubmissionInFlight     = errors.New("order submission already in progress")
)
