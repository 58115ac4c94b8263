package catalog

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/angelmondragon/pos-register/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// DefaultMenu is the seed menu the register ships with.
func DefaultMenu() []types.Product {
	return []types.Product{
		{ID: "espresso", Name: "Espresso", Price: decimal.RequireFromString("2.50")},
		{ID: "americano", Name: "Americano", Price: decimal.RequireFromString("3.00")},
		{ID: "cappuccino", Name: "Cappuccino", Price: decimal.RequireFromString("4.00")},
		{ID: "latte", Name: "Latte", Price: decimal.RequireFromString("4.50")},
		{ID: "mocha", Name: "Mocha", Price: decimal.RequireFromString("4.75")},
		{ID: "croissant", Name: "Croissant", Price: decimal.RequireFromString("3.25")},
		{ID: "muffin", Name: "Blueberry Muffin", Price: decimal.RequireFromString("2.95")},
		{ID: "water", Name: "Bottled Water", Price: decimal.RequireFromString("1.50")},
	}
}

// Static serves a fixed, validated product list.
type Static struct {
	products []types.Product
}

// NewStatic validates products and returns a provider over a trimmed copy of them.
func NewStatic(products []types.Product) (*Static, error) {
	if err := Validate(products); err != nil {
		return nil, err
	}
	return &Static{products: normalize(products)}, nil
}

func (s *Static) ListProducts(ctx context.Context) ([]types.Product, error) {
	out := make([]types.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Validate reports every malformed product at once.
func Validate(products []types.Product) error {
	var errs error
	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			errs = multierr.Append(errs, fmt.Errorf("product %d: id is required", i))
		} else if _, dup := seen[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("product %d: duplicate id %q", i, id))
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(p.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("product %d: name is required", i))
		}
		if p.Price.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("product %d: price %s is negative", i, p.Price.String()))
		} else if !p.Price.Equal(p.Price.Round(2)) {
			errs = multierr.Append(errs, fmt.Errorf("product %d: price %s has more than 2 decimal places", i, p.Price.String()))
		}
	}
	if errs == nil {
		return nil
	}
	problems := make([]string, 0)
	for _, e := range multierr.Errors(errs) {
		problems = append(problems, e.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid catalog").
		WithDetails(map[string]any{"problems": problems})
}

// normalize copies products with ids and names trimmed, the form Find looks up.
func normalize(products []types.Product) []types.Product {
	out := make([]types.Product, len(products))
	for i, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		out[i] = p
	}
	return out
}
