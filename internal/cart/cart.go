// Package cart holds the per-session shopping cart a customer builds before checkout.
package cart

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
)

// Line is one cart entry: a menu item, a quantity and an ordered customization list.
type Line struct {
	Item           menu.Item `json:"menuItem"`
	Quantity       int       `json:"quantity"`
	Customizations []string  `json:"customizations"`
}

// Total is price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is not safe for concurrent use; Registry serializes access per user.
type Cart struct {
	lines []Line
}

// Add merges into an existing line when the menu item id and the customization
// list (order-sensitive) both match; otherwise it appends a new line.
func (c *Cart) Add(item menu.Item, quantity int, customizations []string) error {
	if quantity < 1 {
		return apperr.Validation("quantity must be at least 1")
	}
	if !item.Available {
		return apperr.Validation("%s is not available", item.Name)
	}
	if customizations == nil {
		customizations = []string{}
	}
	for i := range c.lines {
		l := &c.lines[i]
		if l.Item.ID == item.ID && slices.Equal(l.Customizations, customizations) {
			l.Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		Item:           item,
		Quantity:       quantity,
		Customizations: slices.Clone(customizations),
	})
	return nil
}

// Update sets the quantity of the line at index; quantity <= 0 removes it.
func (c *Cart) Update(index, quantity int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: cart line %d", apperr.ErrNotFound, index)
	}
	if quantity <= 0 {
		c.lines = slices.Delete(c.lines, index, index+1)
		return nil
	}
	c.lines[index].Quantity = quantity
	return nil
}

func (c *Cart) Remove(index int) error { return c.Update(index, 0) }

func (c *Cart) Clear() { c.lines = nil }

// Subtract takes the quantities in lines off the matching cart lines and drops
// lines that reach zero. Anything added after lines was read stays in the cart.
func (c *Cart) Subtract(lines []Line) {
	for _, l := range lines {
		for i := range c.lines {
			cur := &c.lines[i]
			if cur.Item.ID != l.Item.ID || !slices.Equal(cur.Customizations, l.Customizations) {
				continue
			}
			cur.Quantity -= l.Quantity
			if cur.Quantity <= 0 {
				c.lines = slices.Delete(c.lines, i, i+1)
			}
			break
		}
	}
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		l.Customizations = slices.Clone(l.Customizations)
		out[i] = l
	}
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

// Subtotal sums price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.lines)
}

// ItemCount sums quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums price times quantity over lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}
