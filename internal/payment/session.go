package payment

import (
	"strings"
	"time"

	"github.com/angelmondragon/pos-register/internal/loyalty"
	"github.com/angelmondragon/pos-register/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the cart surface settlement needs.
type Ledger interface {
	Total() decimal.Decimal
	Clear()
}

// Account is the loyalty surface settlement needs.
type Account interface {
	Credit(points int64) error
	Balance() int64
}

// Session is one settlement attempt. Amount is the cart total copied at Begin.
type Session struct {
	ID        uuid.UUID           `json:"id"`
	Tender    string              `json:"tender"`
	Amount    decimal.Decimal     `json:"amount"`
	Status    enums.PaymentStatus `json:"status"`
	StartedAt time.Time           `json:"started_at"`
}

// Receipt describes a completed settlement.
type Receipt struct {
	SessionID      uuid.UUID       `json:"session_id"`
	Tender         string          `json:"tender"`
	Amount         decimal.Decimal `json:"amount"`
	PointsCredited int64           `json:"points_credited"`
	LoyaltyBalance int64           `json:"loyalty_balance"`
	CompletedAt    time.Time       `json:"completed_at"`
}

// Desk runs the idle -> pending -> {completed, cancelled} machine. Only one
// session exists at a time; once it reaches a terminal state the desk is idle
// again.
type Desk struct {
	current       *Session
	pointsPerUnit int64
	now           func() time.Time
	newID         func() uuid.UUID
}

type Option func(*Desk)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Desk) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(d *Desk) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// NewDesk builds an idle desk crediting pointsPerUnit points per currency unit.
func NewDesk(pointsPerUnit int64, opts ...Option) *Desk {
	if pointsPerUnit < 0 {
		pointsPerUnit = 0
	}
	d := &Desk{
		pointsPerUnit: pointsPerUnit,
		now:           time.Now,
		newID:         uuid.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Status returns idle when no session is open.
func (d *Desk) Status() enums.PaymentStatus {
	if d.current == nil {
		return enums.PaymentStatusIdle
	}
	return d.current.Status
}

// Current returns the pending session, if any.
func (d *Desk) Current() (Session, bool) {
	if d.current == nil {
		return Session{}, false
	}
	return *d.current, true
}

// Begin opens a pending session for the ledger's current total.
func (d *Desk) Begin(tender string, ledger Ledger) (Session, error) {
	tender = strings.TrimSpace(tender)
	if tender == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeValidation, "tender is required")
	}
	if d.current != nil && d.current.Status == enums.PaymentStatusPending {
		return Session{}, pkgerrors.New(pkgerrors.CodeInvalidOperation, "a payment session is already pending").
			WithDetails(map[string]any{"session_id": d.current.ID.String()})
	}
	total := ledger.Total()
	if !total.IsPositive() {
		return Session{}, pkgerrors.New(pkgerrors.CodeInvalidOperation, "nothing to settle: cart total is zero")
	}

	d.current = &Session{
		ID:        d.newID(),
		Tender:    tender,
		Amount:    total,
		Status:    enums.PaymentStatusPending,
		StartedAt: d.now(),
	}
	return *d.current, nil
}

// Complete settles the pending session: the account is credited with
// floor(amount × rate), the ledger is cleared and the desk returns to idle.
// Every check runs before the first mutation.
func (d *Desk) Complete(ledger Ledger, account Account) (Receipt, error) {
	if err := d.requirePending("complete"); err != nil {
		return Receipt{}, err
	}
	session := d.current
	points := loyalty.PointsFor(session.Amount, d.pointsPerUnit)

	if err := account.Credit(points); err != nil {
		return Receipt{}, err
	}
	ledger.Clear()
	session.Status = enums.PaymentStatusCompleted
	d.current = nil

	return Receipt{
		SessionID:      session.ID,
		Tender:         session.Tender,
		Amount:         session.Amount,
		PointsCredited: points,
		LoyaltyBalance: account.Balance(),
		CompletedAt:    d.now(),
	}, nil
}

// Cancel abandons the pending session without touching cart or loyalty.
func (d *Desk) Cancel() (Session, error) {
	if err := d.requirePending("cancel"); err != nil {
		return Session{}, err
	}
	session := *d.current
	session.Status = enums.PaymentStatusCancelled
	d.current = nil
	return session, nil
}

func (d *Desk) requirePending(op string) error {
	if d.current == nil || d.current.Status != enums.PaymentStatusPending {
		return pkgerrors.Newf(pkgerrors.CodeInvalidOperation, "cannot %s payment: no pending session", op).
			WithDetails(map[string]any{"status": d.Status().String()})
	}
	return nil
}
