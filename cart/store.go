package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Key identifies a line item. AttributeID is 0 for products sold without a variant.
type Key struct {
	ProductID   int `json:"product_id"`
	AttributeID int `json:"attribute_id"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.ProductID, k.AttributeID)
}

// Details is everything a line item needs besides its key and quantity.
type Details struct {
	Name            string
	AttributeLabel  string
	OriginalPrice   decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPerUnit decimal.Decimal
	SKU             string
	AvailableStock  int
	ImageURL        string
}

type LineItem struct {
	ProductID       int             `json:"product_id"`
	AttributeID     int             `json:"attribute_id"`
	Name            string          `json:"name"`
	AttributeLabel  string          `json:"attribute_label"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPerUnit decimal.Decimal `json:"discount"`
	SKU             string          `json:"sku"`
	AvailableStock  int             `json:"stock"`
	ImageURL        string          `json:"image"`
	Quantity        int             `json:"quantity"`
}

func (l LineItem) Key() Key {
	return Key{ProductID: l.ProductID, AttributeID: l.AttributeID}
}

// Subtotal is unit price times quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CanIncrease reports whether one more unit fits in the available stock.
func (l LineItem) CanIncrease() bool {
	return l.Quantity < l.AvailableStock
}

// CanDecrease reports whether the quantity is above the floor of 1.
func (l LineItem) CanDecrease() bool {
	return l.Quantity > 1
}

type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Increase, Decrease:
		return Direction(s), nil
	}
	return "", ErrInvalidDirection
}

// Store holds the line items of one cart keyed by (product, attribute).
// Items keep the order in which they were first added.
type Store struct {
	items map[Key]*LineItem
	order []Key
}

func NewStore() *Store {
	return &Store{items: make(map[Key]*LineItem)}
}

// Add inserts a new line with quantity 1, or bumps an existing line by one.
// Stock is not checked here: the first unit always goes in.
func (s *Store) Add(productID, attributeID int, d Details) LineItem {
	key := Key{ProductID: productID, AttributeID: attributeID}
	if item, ok := s.items[key]; ok {
		item.Quantity++
		return *item
	}

	item := &LineItem{
		ProductID:       productID,
		AttributeID:     attributeID,
		Name:            d.Name,
		AttributeLabel:  d.AttributeLabel,
		OriginalPrice:   d.OriginalPrice,
		UnitPrice:       d.UnitPrice,
		DiscountPerUnit: d.DiscountPerUnit,
		SKU:             d.SKU,
		AvailableStock:  d.AvailableStock,
		ImageURL:        d.ImageURL,
		Quantity:        1,
	}
	if attributeID == 0 {
		item.AttributeLabel = ""
	}
	s.items[key] = item
	s.order = append(s.order, key)
	return *item
}

// Remove deletes the line. Removing a missing line is a no-op.
func (s *Store) Remove(productID, attributeID int) bool {
	key := Key{ProductID: productID, AttributeID: attributeID}
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// ChangeQuantity moves the quantity one step. Crossing the floor (1) or the
// ceiling (available stock) leaves the line unchanged and reports false.
func (s *Store) ChangeQuantity(productID, attributeID int, dir Direction) (bool, error) {
	item, ok := s.items[Key{ProductID: productID, AttributeID: attributeID}]
	if !ok {
		return false, ErrLineNotFound
	}

	switch dir {
	case Increase:
		if !item.CanIncrease() {
			return false, nil
		}
		item.Quantity++
	case Decrease:
		if !item.CanDecrease() {
			return false, nil
		}
		item.Quantity--
	default:
		return false, ErrInvalidDirection
	}
	return true, nil
}

func (s *Store) Get(productID, attributeID int) (LineItem, bool) {
	item, ok := s.items[Key{ProductID: productID, AttributeID: attributeID}]
	if !ok {
		return LineItem{}, false
	}
	return *item, true
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.items[k])
	}
	return out
}

func (s *Store) Len() int {
	return len(s.order)
}
