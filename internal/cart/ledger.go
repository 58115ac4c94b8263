package cart

import (
	"github.com/angelmondragon/pos-register/pkg/types"
	"github.com/shopspring/decimal"
)

// LineItem is one cart row. Price is the snapshot taken when the product was
// first added (or the last committed price override).
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Ledger holds the cart lines in first-add order. There is at most one line per
// product id and every line has quantity >= 1.
type Ledger struct {
	items []LineItem
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AddItem merges into an existing line or appends a new one at quantity 1.
// Repeat adds never refresh the stored price.
func (l *Ledger) AddItem(product types.Product) LineItem {
	if idx := l.indexOf(product.ID); idx >= 0 {
		l.items[idx].Quantity++
		return l.items[idx]
	}
	item := LineItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: 1,
	}
	l.items = append(l.items, item)
	return item
}

// SetQuantity sets the line quantity, removing the line when quantity <= 0.
// It reports whether a line was touched; an absent id is a no-op.
func (l *Ledger) SetQuantity(id string, quantity int) bool {
	idx := l.indexOf(id)
	if idx < 0 {
		return false
	}
	if quantity <= 0 {
		l.removeAt(idx)
		return true
	}
	l.items[idx].Quantity = quantity
	return true
}

// SetPrice overrides the price snapshot of a line. Negative prices are refused
// so the total can never drop below zero.
func (l *Ledger) SetPrice(id string, price decimal.Decimal) bool {
	if price.IsNegative() {
		return false
	}
	idx := l.indexOf(id)
	if idx < 0 {
		return false
	}
	l.items[idx].Price = price
	return true
}

// RemoveItem drops the line if present.
func (l *Ledger) RemoveItem(id string) bool {
	idx := l.indexOf(id)
	if idx < 0 {
		return false
	}
	l.removeAt(idx)
	return true
}

// Total is recomputed on every call.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.items = nil
}

// Items returns a copy of the lines in cart order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Find returns the line for id.
func (l *Ledger) Find(id string) (LineItem, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return l.items[idx], true
}

func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) IsEmpty() bool {
	return len(l.items) == 0
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) removeAt(idx int) {
	l.items = append(l.items[:idx], l.items[idx+1:]...)
}
