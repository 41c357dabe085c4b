// Package catalog serves the storefront's static product list.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultCatalog []byte

// Product is a catalog entry.
type Product struct {
	ID          int
	Name        string
	Price       decimal.Decimal
	Image       string
	Description string
	Category    string
}

type productRecord struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

type catalogFile struct {
	Products []productRecord `yaml:"products"`
}

// Catalog is an immutable, in-memory product list.
type Catalog struct {
	products []Product
	byID     map[int]Product
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the bundled catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog. Ids must be positive and unique, prices
// non-negative decimals.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[int]Product, len(file.Products))}
	for _, rec := range file.Products {
		if rec.ID <= 0 {
			return nil, fmt.Errorf("catalog product %q: id must be positive", rec.Name)
		}
		if _, dup := c.byID[rec.ID]; dup {
			return nil, fmt.Errorf("catalog product id %d is duplicated", rec.ID)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec.Price))
		if err != nil {
			return nil, fmt.Errorf("catalog product %d: invalid price %q: %w", rec.ID, rec.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("catalog product %d: price cannot be negative", rec.ID)
		}
		p := Product{
			ID:          rec.ID,
			Name:        strings.TrimSpace(rec.Name),
			Price:       price,
			Image:       strings.TrimSpace(rec.Image),
			Description: strings.TrimSpace(rec.Description),
			Category:    strings.TrimSpace(rec.Category),
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// List returns products in catalog order, filtered by category when one is
// given. Category matching ignores case.
func (c *Catalog) List(category string) []Product {
	category = normalizeCategory(category)
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && normalizeCategory(p.Category) != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Get returns the product with id or a NOT_FOUND error.
func (c *Catalog) Get(id int) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": id})
	}
	return p, nil
}

// Categories returns the distinct categories as first spelled in the catalog,
// sorted case-insensitively.
func (c *Catalog) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range c.products {
		key := normalizeCategory(p.Category)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Slice(out, func(i, j int) bool {
		return normalizeCategory(out[i]) < normalizeCategory(out[j])
	})
	return out
}

func normalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
