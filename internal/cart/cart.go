// Package cart owns the shopping cart: the line items a browser session has
// selected, the rules for merging and adjusting them, and their persistence.
package cart

import "github.com/shopspring/decimal"

// MaxQuantity caps the units of a single line item.
const MaxQuantity = 9999

// LineItem is one product entry in a cart. Name, Price and Image are copied
// from the catalog when the product is first added and never refreshed.
type LineItem struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    string
}

// Subtotal returns Price x Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Product is the catalog snapshot handed to AddItem.
type Product struct {
	ID    int
	Name  string
	Price decimal.Decimal
	Image string
}

// Cart is an ordered list of line items, unique by ID, each with Quantity >= 1.
// The zero value is an empty cart.
type Cart struct {
	Items []LineItem
}

// Total sums price x quantity over all line items. It is recomputed on every
// call and never cached.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count returns the number of distinct line items, not the sum of quantities.
// Two units of one product count as 1. The navigation badge shows this value.
func (c Cart) Count() int {
	return len(c.Items)
}

// Units returns the sum of quantities across line items.
func (c Cart) Units() int {
	units := 0
	for _, item := range c.Items {
		units += item.Quantity
	}
	return units
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the line item for id.
func (c Cart) Find(id int) (LineItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// Equal reports whether both carts hold the same line items in the same order.
func (c Cart) Equal(other Cart) bool {
	if len(c.Items) != len(other.Items) {
		return false
	}
	for i := range c.Items {
		a, b := c.Items[i], other.Items[i]
		if a.ID != b.ID || a.Name != b.Name || a.Quantity != b.Quantity || a.Image != b.Image || !a.Price.Equal(b.Price) {
			return false
		}
	}
	return true
}

// Total is the package-level form of Cart.Total.
func Total(c Cart) decimal.Decimal {
	return c.Total()
}

// Count is the package-level form of Cart.Count.
func Count(c Cart) int {
	return c.Count()
}

func (c Cart) indexOf(id int) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	if len(c.Items) == 0 {
		return Cart{}
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
