package types

import "github.com/shopspring/decimal"

// Product is a selectable catalog entry. Catalog providers own it; the register
// only reads it.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
