package cart

import "github.com/shopspring/decimal"

type Customer struct {
	ID    int    `json:"customer_id"`
	Label string `json:"customer_label"`
}

// OrderSummary is the summary plus the operator-chosen customer and payment,
// which is what the back office receives as "orderSummary".
type OrderSummary struct {
	Summary
	CustomerID      int    `json:"customer_id"`
	CustomerLabel   string `json:"customer_label"`
	PaymentMethodID int    `json:"payment_method_id"`
	TransactionID   string `json:"transaction_id"`
}

// Submission is the order-create payload.
type Submission struct {
	Carts        []LineItem   `json:"carts"`
	OrderSummary OrderSummary `json:"orderSummary"`
	ShopID       int          `json:"shop_id"`
}

type PickerState struct {
	ProductID           int             `json:"product_id"`
	ProductName         string          `json:"product_name"`
	BasePrice           decimal.Decimal `json:"base_price"`
	Options             []Variant       `json:"options"`
	SelectedAttributeID int             `json:"selected_attribute_id"`
}

// State is a read-only snapshot of a draft for rendering.
type State struct {
	Items               []LineItem   `json:"items"`
	Summary             OrderSummary `json:"summary"`
	Picker              *PickerState `json:"picker,omitempty"`
	TransactionRequired bool         `json:"transaction_required"`
	CanSubmit           bool         `json:"can_submit"`
	Submitting          bool         `json:"submitting"`
}

// Draft is the engine state of one order-creation session. It is not safe for
// concurrent use; callers serialize access per session.
type Draft struct {
	policy     Policy
	store      *Store
	summary    Summary
	paidEdited bool
	payment    Payment
	customer   Customer
	picker     *Picker
	submitting bool
}

func NewDraft(policy Policy) *Draft {
	d := &Draft{
		policy:  policy,
		store:   NewStore(),
		payment: NewPayment(),
	}
	d.recompute()
	return d
}

// recompute rebuilds the summary after every cart mutation.
func (d *Draft) recompute() {
	next := ComputeSummary(d.store.Items(), d.policy)
	if d.policy.KeepPartialPayment && d.paidEdited {
		paid := d.summary.PaidAmount
		if paid.GreaterThan(next.Payable) {
			paid = next.Payable
		}
		d.summary = next.withPaid(paid)
		return
	}
	d.summary = next
	d.paidEdited = false
}

// Add puts one unit of the product (or one of its variants) into the cart.
// Products with variants need an attribute id.
func (d *Draft) Add(p Product, attributeID int) (LineItem, error) {
	details, err := p.Details(attributeID)
	if err != nil {
		return LineItem{}, err
	}
	return d.AddItem(p.ID, attributeID, details), nil
}

func (d *Draft) AddItem(productID, attributeID int, details Details) LineItem {
	item := d.store.Add(productID, attributeID, details)
	d.recompute()
	return item
}

func (d *Draft) Remove(productID, attributeID int) bool {
	removed := d.store.Remove(productID, attributeID)
	if removed {
		d.recompute()
	}
	return removed
}

func (d *Draft) ChangeQuantity(productID, attributeID int, dir Direction) (bool, error) {
	changed, err := d.store.ChangeQuantity(productID, attributeID, dir)
	if err != nil {
		return false, err
	}
	if changed {
		d.recompute()
	}
	return changed, nil
}

// OpenPicker starts the variant flow for p, replacing any open picker.
func (d *Draft) OpenPicker(p Product) (*PickerState, error) {
	picker, err := NewPicker(p)
	if err != nil {
		return nil, err
	}
	d.picker = picker
	return d.pickerState(), nil
}

func (d *Draft) ChooseAttribute(attributeID int) (*PickerState, error) {
	if d.picker == nil {
		return nil, ErrPickerClosed
	}
	if err := d.picker.Choose(attributeID); err != nil {
		return nil, err
	}
	return d.pickerState(), nil
}

// ConfirmPicker adds the chosen variant and closes the picker. Without a
// choice the picker stays open and ErrAttributeRequired is returned.
func (d *Draft) ConfirmPicker() (LineItem, error) {
	if d.picker == nil {
		return LineItem{}, ErrPickerClosed
	}
	key, details, err := d.picker.Confirm()
	if err != nil {
		return LineItem{}, err
	}
	d.picker = nil
	return d.AddItem(key.ProductID, key.AttributeID, details), nil
}

func (d *Draft) CancelPicker() {
	d.picker = nil
}

func (d *Draft) pickerState() *PickerState {
	if d.picker == nil {
		return nil
	}
	p := d.picker.Product()
	return &PickerState{
		ProductID:           p.ID,
		ProductName:         p.Name,
		BasePrice:           p.Price,
		Options:             d.picker.Options(),
		SelectedAttributeID: d.picker.chosen,
	}
}

func (d *Draft) SetCustomer(id int, label string) {
	if id <= 0 {
		d.customer = Customer{}
		return
	}
	d.customer = Customer{ID: id, Label: label}
}

// SetPaidAmount accepts 0 <= v <= payable. Anything else is rejected and the
// previous value stays.
func (d *Draft) SetPaidAmount(v decimal.Decimal) error {
	if !d.paidInRange(v) {
		return ErrPaidOutOfRange
	}
	d.summary = d.summary.withPaid(v)
	d.paidEdited = true
	return nil
}

func (d *Draft) paidInRange(v decimal.Decimal) bool {
	return !v.IsNegative() && !v.GreaterThan(d.summary.Payable)
}

// PaymentUpdate names the payment fields to change. Nil fields are left alone.
type PaymentUpdate struct {
	MethodID      *int
	TransactionID *string
	PaidAmount    *decimal.Decimal
}

// UpdatePayment applies u as a whole: the method first, then the transaction
// id, then the paid amount. If any field is rejected nothing changes.
func (d *Draft) UpdatePayment(u PaymentUpdate) error {
	next := d.payment
	if u.MethodID != nil {
		if err := next.SetMethod(*u.MethodID); err != nil {
			return err
		}
	}
	if u.TransactionID != nil {
		if err := next.SetTransactionID(*u.TransactionID); err != nil {
			return err
		}
	}
	if u.PaidAmount != nil && !d.paidInRange(*u.PaidAmount) {
		return ErrPaidOutOfRange
	}

	d.payment = next
	if u.PaidAmount != nil {
		d.summary = d.summary.withPaid(*u.PaidAmount)
		d.paidEdited = true
	}
	return nil
}

func (d *Draft) SetPaymentMethod(id int) error {
	return d.payment.SetMethod(id)
}

func (d *Draft) SetTransactionID(id string) error {
	return d.payment.SetTransactionID(id)
}

func (d *Draft) Summary() Summary {
	return d.summary
}

func (d *Draft) Payment() Payment {
	return d.payment
}

func (d *Draft) Customer() Customer {
	return d.customer
}

func (d *Draft) Items() []LineItem {
	return d.store.Items()
}

// CanSubmit is the gate: at least one unit in the cart and a customer chosen.
func (d *Draft) CanSubmit() bool {
	return d.summary.TotalItems > 0 && d.customer.ID != 0
}

func (d *Draft) Validate() error {
	if d.summary.TotalItems == 0 {
		return ErrEmptyCart
	}
	if d.customer.ID == 0 {
		return ErrNoCustomer
	}
	return d.payment.Validate()
}

func (d *Draft) orderSummary() OrderSummary {
	return OrderSummary{
		Summary:         d.summary,
		CustomerID:      d.customer.ID,
		CustomerLabel:   d.customer.Label,
		PaymentMethodID: d.payment.MethodID,
		TransactionID:   d.payment.TransactionID,
	}
}

// BeginSubmit validates the draft, marks it in flight and returns the payload.
// A second call before EndSubmit fails with ErrSubmissionInFlight.
func (d *Draft) BeginSubmit(shopID int) (Submission, error) {
	if d.submitting {
		return Submission{}, ErrSubmissionInFlight
	}
	if err := d.Validate(); err != nil {
		return Submission{}, err
	}
	d.submitting = true
	return Submission{
		Carts:        d.store.Items(),
		OrderSummary: d.orderSummary(),
		ShopID:       shopID,
	}, nil
}

// EndSubmit clears the in-flight flag. The cart is left as it was.
func (d *Draft) EndSubmit() {
	d.submitting = false
}

func (d *Draft) Submitting() bool {
	return d.submitting
}

func (d *Draft) State() State {
	return State{
		Items:               d.store.Items(),
		Summary:             d.orderSummary(),
		Picker:              d.pickerState(),
		TransactionRequired: d.payment.TransactionRequired(),
		CanSubmit:           d.CanSubmit(),
		Submitting:          d.submitting,
	}
}
