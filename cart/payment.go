package cart

import "strings"

// CashMethodID is the default payment method. It never carries a transaction id.
const CashMethodID = 1

type Payment struct {
	MethodID      int    `json:"payment_method_id"`
	TransactionID string `json:"transaction_id"`
}

func NewPayment() Payment {
	return Payment{MethodID: CashMethodID}
}

// SetMethod switches the method. Switching to cash drops the transaction id.
func (p *Payment) SetMethod(id int) error {
	if id <= 0 {
		return ErrInvalidPaymentMethod
	}
	p.MethodID = id
	if id == CashMethodID {
		p.TransactionID = ""
	}
	return nil
}

func (p *Payment) SetTransactionID(id string) error {
	if p.MethodID == CashMethodID {
		return ErrTransactionNotEditable
	}
	p.TransactionID = strings.TrimSpace(id)
	return nil
}

// TransactionRequired reports whether the current method needs a transaction id.
func (p Payment) TransactionRequired() bool {
	return p.MethodID != CashMethodID
}

func (p Payment) Validate() error {
	if p.TransactionRequired() && p.TransactionID == "" {
		return ErrTransactionRequired
	}
	return nil
}
