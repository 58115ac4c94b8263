package session

import (
	"github.com/angelmondragon/pos-register/internal/cart"
	"github.com/angelmondragon/pos-register/pkg/enums"
	"github.com/shopspring/decimal"
)

// Snapshot is a value copy of the register state at one point in time.
type Snapshot struct {
	Lines         []cart.LineItem   `json:"lines"`
	Total         decimal.Decimal   `json:"total"`
	LoyaltyPoints int64             `json:"loyalty_points"`
	EntryText     string            `json:"entry_text"`
	EntryTarget   enums.EntryTarget `json:"entry_target"`
	FocusedLineID string            `json:"focused_line_id,omitempty"`
	Payment       PaymentView       `json:"payment"`
}

// PaymentView is the visible part of the payment session.
type PaymentView struct {
	Status    enums.PaymentStatus `json:"status"`
	SessionID string              `json:"session_id,omitempty"`
	Tender    string              `json:"tender,omitempty"`
	Amount    decimal.Decimal     `json:"amount"`
}

// Listener receives a snapshot after every accepted action. Service listeners
// run outside the register lock and may call back into the service.
type Listener func(Snapshot)
