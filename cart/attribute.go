package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Operator is the math sign a variant applies to the base sell price.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
)

type Modifier struct {
	Sign   Operator        `json:"sign"`
	Number decimal.Decimal `json:"number"`
}

// Apply computes the variant unit price from the base price.
func (m Modifier) Apply(base decimal.Decimal) (decimal.Decimal, error) {
	var price decimal.Decimal
	switch m.Sign {
	case OpAdd:
		price = base.Add(m.Number)
	case OpSubtract:
		price = base.Sub(m.Number)
	case OpMultiply:
		price = base.Mul(m.Number)
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownOperator, m.Sign)
	}
	if price.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	return price, nil
}

type Attribute struct {
	ID       int      `json:"id"`
	Label    string   `json:"label"`
	Modifier Modifier `json:"modifier"`
}

// Product is the catalog view of a sellable product, as the cart needs it.
type Product struct {
	ID         int
	Name       string
	SKU        string
	ImageURL   string
	Stock      int
	Price      decimal.Decimal
	Discount   decimal.Decimal
	Attributes []Attribute
}

func (p Product) HasAttributes() bool {
	return len(p.Attributes) > 0
}

func (p Product) attribute(id int) (Attribute, bool) {
	for _, a := range p.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return Attribute{}, false
}

// Details resolves line item details for the given variant. attributeID 0
// means the base product, which is only allowed when it has no variants.
func (p Product) Details(attributeID int) (Details, error) {
	d := Details{
		Name:            p.Name,
		OriginalPrice:   p.Price,
		UnitPrice:       p.Price,
		DiscountPerUnit: p.Discount,
		SKU:             p.SKU,
		AvailableStock:  p.Stock,
		ImageURL:        p.ImageURL,
	}
	if attributeID == 0 {
		if p.HasAttributes() {
			return Details{}, ErrAttributeRequired
		}
		return d, nil
	}

	attr, ok := p.attribute(attributeID)
	if !ok {
		return Details{}, ErrUnknownAttribute
	}
	price, err := attr.Modifier.Apply(p.Price)
	if err != nil {
		return Details{}, err
	}
	d.UnitPrice = price
	d.AttributeLabel = attr.Label
	return d, nil
}

// Variant is one option offered by the picker with its adjusted price.
type Variant struct {
	Attribute
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Picker is the transient variant selection for one product.
type Picker struct {
	product Product
	chosen  int
}

func NewPicker(p Product) (*Picker, error) {
	if !p.HasAttributes() {
		return nil, ErrNoAttributes
	}
	return &Picker{product: p}, nil
}

func (p *Picker) Product() Product {
	return p.product
}

// Options lists the variants. Variants whose modifier cannot be applied are
// left out.
func (p *Picker) Options() []Variant {
	out := make([]Variant, 0, len(p.product.Attributes))
	for _, a := range p.product.Attributes {
		price, err := a.Modifier.Apply(p.product.Price)
		if err != nil {
			continue
		}
		out = append(out, Variant{Attribute: a, UnitPrice: price})
	}
	return out
}

func (p *Picker) Choose(attributeID int) error {
	attr, ok := p.product.attribute(attributeID)
	if !ok {
		return ErrUnknownAttribute
	}
	if _, err := attr.Modifier.Apply(p.product.Price); err != nil {
		return err
	}
	p.chosen = attributeID
	return nil
}

// Selected returns the chosen variant, if any.
func (p *Picker) Selected() (Attribute, bool) {
	if p.chosen == 0 {
		return Attribute{}, false
	}
	return p.product.attribute(p.chosen)
}

// Confirm resolves the chosen variant into an add request.
func (p *Picker) Confirm() (Key, Details, error) {
	if p.chosen == 0 {
		return Key{}, Details{}, ErrAttributeRequired
	}
	d, err := p.product.Details(p.chosen)
	if err != nil {
		return Key{}, Details{}, err
	}
	return Key{ProductID: p.product.ID, AttributeID: p.chosen}, d, nil
}
