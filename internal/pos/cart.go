package pos

import (
	"strings"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

// CartItem is a client-side line. Price is snapshotted when the product is
// first added and never refreshed.
type CartItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart keeps lines in insertion order. Every listed line has Quantity >= 1.
type Cart struct {
	lines []CartItem
}

func (c *Cart) Add(product domain.Product) {
	if idx := c.index(product.ID); idx >= 0 {
		c.lines[idx].Quantity++
		return
	}
	c.lines = append(c.lines, CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})
}

func (c *Cart) Increment(productID string) {
	if idx := c.index(productID); idx >= 0 {
		c.lines[idx].Quantity++
	}
}

// Decrement lowers the line by one and drops it once it would reach zero.
func (c *Cart) Decrement(productID string) {
	idx := c.index(productID)
	if idx < 0 {
		return
	}
	if c.lines[idx].Quantity <= 1 {
		c.removeAt(idx)
		return
	}
	c.lines[idx].Quantity--
}

func (c *Cart) Remove(productID string) {
	if idx := c.index(productID); idx >= 0 {
		c.removeAt(idx)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Lines() []CartItem {
	return append([]CartItem(nil), c.lines...)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Quantity(productID string) int {
	if idx := c.index(productID); idx >= 0 {
		return c.lines[idx].Quantity
	}
	return 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

func (c *Cart) checkoutItems() []domain.CheckoutItem {
	items := make([]domain.CheckoutItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, domain.CheckoutItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

// FilterProducts keeps products whose name contains term, ignoring case.
func FilterProducts(products []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}
