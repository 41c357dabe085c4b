package cart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// storedItem is the persisted shape of a line item. Price travels as a JSON
// number so the record stays readable by clients that expect numeric prices.
type storedItem struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
	Image    string      `json:"image"`
}

func encode(c Cart) (string, error) {
	stored := make([]storedItem, 0, len(c.Items))
	for _, item := range c.Items {
		stored = append(stored, storedItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
			Image:    item.Image,
		})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(raw), nil
}

// decode parses a persisted record. Entries that break the cart invariants are
// repaired: non-positive ids or quantities and unusable prices are dropped,
// duplicate ids are merged and quantities are capped at MaxQuantity. The number of repaired entries is returned alongside.
func decode(raw string) (Cart, int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return Cart{}, 0, nil
	}

	var stored []storedItem
	if err := json.Unmarshal([]byte(trimmed), &stored); err != nil {
		return Cart{}, 0, fmt.Errorf("decode cart: %w", err)
	}

	var (
		c        Cart
		repaired int
	)
	for _, entry := range stored {
		price, err := decimal.NewFromString(entry.Price.String())
		if err != nil || price.IsNegative() || entry.ID <= 0 || entry.Quantity < 1 {
			repaired++
			continue
		}
		quantity := entry.Quantity
		if quantity > MaxQuantity {
			quantity = MaxQuantity
			repaired++
		}
		if i := c.indexOf(entry.ID); i >= 0 {
			c.Items[i].Quantity = min(c.Items[i].Quantity, MaxQuantity-quantity) + quantity
			repaired++
			continue
		}
		c.Items = append(c.Items, LineItem{
			ID:       entry.ID,
			Name:     entry.Name,
			Price:    price,
			Quantity: quantity,
			Image:    entry.Image,
		})
	}
	return c, repaired, nil
}
