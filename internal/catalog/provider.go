package catalog

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/angelmondragon/pos-register/pkg/types"
)

// Provider supplies the selectable products.
type Provider interface {
	ListProducts(ctx context.Context) ([]types.Product, error)
}

// Find returns the product with the given id from provider.
func Find(ctx context.Context, provider Provider, id string) (types.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	products, err := provider.ListProducts(ctx)
	if err != nil {
		return types.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %q not found", id).
		WithDetails(map[string]any{"product_id": id})
}
