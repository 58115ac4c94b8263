package loyalty

import (
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/shopspring/decimal"
)

// Account is the customer's points balance. It only grows through Credit.
type Account struct {
	points int64
}

// NewAccount opens an account at the given balance; negatives clamp to zero.
func NewAccount(opening int64) *Account {
	if opening < 0 {
		opening = 0
	}
	return &Account{points: opening}
}

// Credit adds points to the balance.
func (a *Account) Credit(points int64) error {
	if points < 0 {
		return pkgerrors.Newf(pkgerrors.CodeInvalidOperation, "cannot credit %d points", points)
	}
	a.points += points
	return nil
}

// Balance returns the current points.
func (a *Account) Balance() int64 {
	return a.points
}

// PointsFor returns floor(amount × rate). Non-positive inputs earn nothing.
func PointsFor(amount decimal.Decimal, rate int64) int64 {
	if rate <= 0 || !amount.IsPositive() {
		return 0
	}
	return amount.Mul(decimal.NewFromInt(rate)).Floor().IntPart()
}
