package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a known item with its list price and unit cost.
type Product struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// Catalog is an ordered product list. Cost lookups take the first match.
type Catalog []Product

// DefaultCatalog returns the products sold out of the box.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Infinity", Price: decimal.NewFromInt(500), Cost: decimal.NewFromInt(250)},
		{Name: "FW PRO", Price: decimal.NewFromInt(800), Cost: decimal.NewFromInt(430)},
	}
}

// UnitCost returns the cost of the first product whose name is contained,
// case-insensitively, in saleName. Unknown products cost zero.
func (c Catalog) UnitCost(saleName string) decimal.Decimal {
	lower := strings.ToLower(saleName)
	for _, p := range c {
		if p.Name != "" && strings.Contains(lower, strings.ToLower(p.Name)) {
			return p.Cost
		}
	}
	return decimal.Zero
}

// ParseCatalog reads "name:price:cost" entries separated by commas.
func ParseCatalog(raw string) (Catalog, error) {
	var c Catalog
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("catalog entry %q: want name:price:cost", entry)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("catalog entry %q: empty name", entry)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: price: %w", entry, err)
		}
		cost, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: cost: %w", entry, err)
		}
		c = append(c, Product{Name: name, Price: price, Cost: cost})
	}
	return c, nil
}
