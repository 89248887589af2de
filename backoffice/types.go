package backoffice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"orderdesk-backend/cart"
)

// Credentials are forwarded to the back office on every call.
type Credentials struct {
	Token  string
	ShopID int
}

type SellPrice struct {
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount"`
	Symbol   string          `json:"symbol"`
}

type ProductAttribute struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Sign   string          `json:"sign"`
	Number decimal.Decimal `json:"number"`
}

type Product struct {
	ID         int                `json:"id"`
	Name       string             `json:"name"`
	SKU        string             `json:"sku"`
	Image      string             `json:"image"`
	Stock      int                `json:"stock"`
	SellPrice  *SellPrice         `json:"sell_price"`
	Attributes []ProductAttribute `json:"attributes"`
}

func (p Product) validate() error {
	if p.ID <= 0 {
		return errors.New("product id missing")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product %d has no name", p.ID)
	}
	if p.SellPrice == nil {
		return fmt.Errorf("product %d has no sell_price", p.ID)
	}
	if p.SellPrice.Price.IsNegative() {
		return fmt.Errorf("product %d has a negative price", p.ID)
	}
	for _, a := range p.Attributes {
		if a.ID <= 0 {
			return fmt.Errorf("product %d has an attribute without id", p.ID)
		}
	}
	return nil
}

// CartProduct converts the catalog entry into what the cart engine works with.
func (p Product) CartProduct() cart.Product {
	out := cart.Product{
		ID:       p.ID,
		Name:     p.Name,
		SKU:      p.SKU,
		ImageURL: p.Image,
		Stock:    p.Stock,
		Price:    decimal.Zero,
		Discount: decimal.Zero,
	}
	if p.SellPrice != nil {
		out.Price = p.SellPrice.Price
		out.Discount = p.SellPrice.Discount
	}
	for _, a := range p.Attributes {
		out.Attributes = append(out.Attributes, cart.Attribute{
			ID:    a.ID,
			Label: a.Name,
			Modifier: cart.Modifier{
				Sign:   cart.Operator(strings.TrimSpace(a.Sign)),
				Number: a.Number,
			},
		})
	}
	return out
}

type ProductPage struct {
	Data        []Product `json:"data"`
	CurrentPage int       `json:"current_page"`
	LastPage    int       `json:"last_page"`
	PerPage     int       `json:"per_page"`
	Total       int       `json:"total"`
}

// ProductQuery is the catalog search. Zero fields fall back to the defaults
// the order screen uses.
type ProductQuery struct {
	Search    string
	OrderBy   string
	Direction string
	PerPage   int
	Page      int
}

const (
	DefaultPerPage   = 20
	DefaultOrderBy   = "id"
	DefaultDirection = "desc"
)

func (q ProductQuery) values() url.Values {
	if q.OrderBy == "" {
		q.OrderBy = DefaultOrderBy
	}
	if q.Direction != "asc" && q.Direction != "desc" {
		q.Direction = DefaultDirection
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	v := url.Values{}
	v.Set("search", strings.TrimSpace(q.Search))
	v.Set("order_by", q.OrderBy)
	v.Set("per_page", strconv.Itoa(q.PerPage))
	v.Set("direction", q.Direction)
	v.Set("page", strconv.Itoa(q.Page))
	return v
}

type Customer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Label is what the operator sees in the customer picker.
func (c Customer) Label() string {
	if c.Phone == "" {
		return c.Name
	}
	return c.Name + " (" + c.Phone + ")"
}

type PaymentMethod struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// OrderResult is a successful order-create answer.
type OrderResult struct {
	OrderID int    `json:"order_id"`
	Message string `json:"message"`
	Class   string `json:"class"`
}

type orderResponse struct {
	Flag    flexBool `json:"flag"`
	Cls     string   `json:"cls"`
	Msg     string   `json:"msg"`
	OrderID flexInt  `json:"order_id"`
}

// flexBool accepts true/false, 1/0 and their string forms.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.ToLower(string(bytes.TrimSpace(data))), `"`)
	switch s {
	case "true", "1", "success":
		*b = true
	case "false", "0", "", "null", "error":
		*b = false
	default:
		return fmt.Errorf("cannot read %s as flag", data)
	}
	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("cannot read %s as integer", data)
	}
	*n = flexInt(v)
	return nil
}

// decodeList reads either a bare JSON array or an object with a "data" array.
func decodeList(body []byte, dest any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, dest)
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.New(`missing "data" list`)
	}
	return json.Unmarshal(envelope.Data, dest)
}

// errorBody is the back office's error envelope. Field errors come either as
// a list of messages or a single string.
type errorBody struct {
	Message string                     `json:"message"`
	Msg     string                     `json:"msg"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func parseErrorBody(body []byte) (string, map[string][]string) {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Msg
	}
	if len(eb.Errors) == 0 {
		return msg, nil
	}
	fields := make(map[string][]string, len(eb.Errors))
	for name, raw := range eb.Errors {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			fields[name] = list
			continue
		}
		var one string
		if err := json.Unmarshal(raw, &one); err == nil {
			fields[name] = []string{one}
		}
	}
	return msg, fields
}

func decodeObject(body []byte, dest any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("expected a JSON object")
	}
	return json.Unmarshal(trimmed, dest)
}
