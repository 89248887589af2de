package desk

import "orderdesk-backend/cart"

// Catalog holds the products of the last catalog page a session fetched.
// Adding to the cart resolves product details from here.
type Catalog struct {
	products []cart.Product
	byID     map[int]int
}

// Replace swaps in a freshly fetched page.
func (c *Catalog) Replace(products []cart.Product) {
	c.products = append([]cart.Product(nil), products...)
	c.byID = make(map[int]int, len(products))
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
}

func (c *Catalog) Product(id int) (cart.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return cart.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Products() []cart.Product {
	return append([]cart.Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	return len(c.products)
}
