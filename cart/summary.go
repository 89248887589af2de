package cart

import "github.com/shopspring/decimal"

// Policy holds the two behaviours the back office has not settled yet. The zero
// value matches what operators see today: discount is shown but not netted out
// of payable, and every cart change re-defaults paid to full payment.
type Policy struct {
	NetDiscount        bool
	KeepPartialPayment bool
}

type Summary struct {
	TotalItems    int             `json:"total_items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	Payable       decimal.Decimal `json:"payable"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
}

// ComputeSummary derives the totals from scratch. Paid defaults to payable.
func ComputeSummary(items []LineItem, policy Policy) Summary {
	s := Summary{
		TotalAmount:   decimal.Zero,
		TotalDiscount: decimal.Zero,
	}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		s.TotalItems += item.Quantity
		s.TotalAmount = s.TotalAmount.Add(item.UnitPrice.Mul(qty))
		s.TotalDiscount = s.TotalDiscount.Add(item.DiscountPerUnit.Mul(qty))
	}

	s.Payable = s.TotalAmount
	if policy.NetDiscount {
		s.Payable = s.TotalAmount.Sub(s.TotalDiscount)
		if s.Payable.IsNegative() {
			s.Payable = decimal.Zero
		}
	}
	s.PaidAmount = s.Payable
	s.DueAmount = decimal.Zero
	return s
}

// withPaid returns a copy with paid set and due derived.
func (s Summary) withPaid(paid decimal.Decimal) Summary {
	s.PaidAmount = paid
	s.DueAmount = s.Payable.Sub(paid)
	return s
}
