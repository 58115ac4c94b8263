package session

import (
	"context"
	"errors"

	"github.com/angelmondragon/pos-register/internal/cart"
	"github.com/angelmondragon/pos-register/internal/catalog"
	"github.com/angelmondragon/pos-register/internal/loyalty"
	"github.com/angelmondragon/pos-register/internal/numpad"
	"github.com/angelmondragon/pos-register/internal/payment"
	"github.com/angelmondragon/pos-register/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/shopspring/decimal"
)

// Orchestrator routes operator actions to the cart, the entry buffer, the
// payment desk and the loyalty account. It is not safe for concurrent use;
// Service serializes access to it.
type Orchestrator struct {
	catalog   catalog.Provider
	ledger    *cart.Ledger
	buffer    *numpad.Buffer
	desk      *payment.Desk
	account   *loyalty.Account
	focused   string
	listeners []Listener
}

// NewOrchestrator builds an orchestrator with an empty cart and an idle desk.
func NewOrchestrator(provider catalog.Provider, account *loyalty.Account, desk *payment.Desk) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.New("catalog provider required")
	}
	if account == nil {
		return nil, errors.New("loyalty account required")
	}
	if desk == nil {
		return nil, errors.New("payment desk required")
	}
	return &Orchestrator{
		catalog: provider,
		ledger:  cart.NewLedger(),
		buffer:  numpad.NewBuffer(),
		desk:    desk,
		account: account,
	}, nil
}

// Subscribe registers l for future snapshots.
func (o *Orchestrator) Subscribe(l Listener) {
	if l != nil {
		o.listeners = append(o.listeners, l)
	}
}

func (o *Orchestrator) Snapshot() Snapshot {
	snap := Snapshot{
		Lines:         o.ledger.Items(),
		Total:         o.ledger.Total(),
		LoyaltyPoints: o.account.Balance(),
		EntryText:     o.buffer.Text(),
		EntryTarget:   o.buffer.Target(),
		FocusedLineID: o.focused,
		Payment:       PaymentView{Status: o.desk.Status()},
	}
	if current, ok := o.desk.Current(); ok {
		snap.Payment.SessionID = current.ID.String()
		snap.Payment.Tender = current.Tender
		snap.Payment.Amount = current.Amount
	}
	return snap
}

// SelectProduct adds the catalog product to the cart.
func (o *Orchestrator) SelectProduct(ctx context.Context, productID string) (cart.LineItem, error) {
	product, err := catalog.Find(ctx, o.catalog, productID)
	if err != nil {
		return cart.LineItem{}, err
	}
	item := o.ledger.AddItem(product)
	o.emit()
	return item, nil
}

// FocusLine points the entry buffer at a line's quantity or price. Target none
// releases the focus.
func (o *Orchestrator) FocusLine(lineID string, target enums.EntryTarget) error {
	if !target.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown entry target %q", target)
	}
	if target == enums.EntryTargetNone {
		o.releaseFocus()
		o.emit()
		return nil
	}
	if _, ok := o.ledger.Find(lineID); !ok {
		return lineNotInCart(lineID)
	}
	o.focused = lineID
	o.buffer.Focus(target)
	o.emit()
	return nil
}

// NumpadKey feeds one key into the entry buffer. Keys with nothing focused are
// accepted and ignored.
func (o *Orchestrator) NumpadKey(key numpad.Key) error {
	o.buffer.Press(key)
	o.emit()
	return nil
}

// CommitEntry applies the buffered value to the focused line. A quantity of 0
// removes the line and releases the focus. Prices are whole cents.
func (o *Orchestrator) CommitEntry() error {
	target := o.buffer.Target()
	if target == enums.EntryTargetNone || o.focused == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "no line is focused for entry")
	}
	if _, ok := o.ledger.Find(o.focused); !ok {
		return lineNotInCart(o.focused)
	}
	value, err := o.buffer.Peek()
	if err != nil {
		return err
	}

	switch target {
	case enums.EntryTargetQuantity:
		if !value.IsInteger() {
			return pkgerrors.Newf(pkgerrors.CodeParse, "quantity %s must be a whole number", value.String()).
				WithDetails(map[string]any{"text": o.buffer.Text()})
		}
		if value.GreaterThan(decimal.NewFromInt(maxQuantity)) {
			return pkgerrors.Newf(pkgerrors.CodeParse, "quantity %s is too large", value.String())
		}
		if _, err := o.buffer.Commit(); err != nil {
			return err
		}
		qty := int(value.IntPart())
		o.ledger.SetQuantity(o.focused, qty)
		if qty == 0 {
			o.releaseFocus()
		}
	case enums.EntryTargetPrice:
		if !value.Equal(value.Round(priceScale)) {
			return pkgerrors.Newf(pkgerrors.CodeParse, "price %s has more than %d decimal places", value.String(), priceScale).
				WithDetails(map[string]any{"text": o.buffer.Text()})
		}
		if _, err := o.buffer.Commit(); err != nil {
			return err
		}
		o.ledger.SetPrice(o.focused, value)
	}
	o.emit()
	return nil
}

// SetQuantity sets a line's quantity directly; 0 removes it.
func (o *Orchestrator) SetQuantity(lineID string, quantity int) error {
	if quantity < 0 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity %d cannot be negative", quantity)
	}
	if !o.ledger.SetQuantity(lineID, quantity) {
		return lineNotInCart(lineID)
	}
	if quantity == 0 && lineID == o.focused {
		o.releaseFocus()
	}
	o.emit()
	return nil
}

// RemoveLine drops a line from the cart.
func (o *Orchestrator) RemoveLine(lineID string) error {
	if !o.ledger.RemoveItem(lineID) {
		return lineNotInCart(lineID)
	}
	if lineID == o.focused {
		o.releaseFocus()
	}
	o.emit()
	return nil
}

// InitiatePayment opens a pending payment session for the cart total.
func (o *Orchestrator) InitiatePayment(tender string) (payment.Session, error) {
	session, err := o.desk.Begin(tender, o.ledger)
	if err != nil {
		return payment.Session{}, err
	}
	o.emit()
	return session, nil
}

// AcknowledgePaymentComplete settles the pending session. Listeners see the
// cleared cart and the credited balance in a single snapshot.
func (o *Orchestrator) AcknowledgePaymentComplete() (payment.Receipt, error) {
	receipt, err := o.desk.Complete(o.ledger, o.account)
	if err != nil {
		return payment.Receipt{}, err
	}
	o.releaseFocus()
	o.emit()
	return receipt, nil
}

// CancelPayment abandons the pending session.
func (o *Orchestrator) CancelPayment() (payment.Session, error) {
	session, err := o.desk.Cancel()
	if err != nil {
		return payment.Session{}, err
	}
	o.emit()
	return session, nil
}

const (
	// maxQuantity bounds committed quantities so they fit an int on every platform.
	maxQuantity = 1<<31 - 1
	// priceScale matches the numeric(12,2) price column.
	priceScale = 2
)

func (o *Orchestrator) releaseFocus() {
	o.focused = ""
	o.buffer.Focus(enums.EntryTargetNone)
}

func (o *Orchestrator) emit() {
	if len(o.listeners) == 0 {
		return
	}
	snap := o.Snapshot()
	for _, l := range o.listeners {
		l(cloneSnapshot(snap))
	}
}

func cloneSnapshot(s Snapshot) Snapshot {
	lines := make([]cart.LineItem, len(s.Lines))
	copy(lines, s.Lines)
	s.Lines = lines
	return s
}

func lineNotInCart(lineID string) error {
	return pkgerrors.Newf(pkgerrors.CodeInvalidOperation, "line %q is not in the cart", lineID).
		WithDetails(map[string]any{"line_id": lineID})
}
