package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pos-register/internal/payment"
	regsession "github.com/angelmondragon/pos-register/internal/session"
	"github.com/angelmondragon/pos-register/pkg/types"
)

type lineItemResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type paymentViewResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	Tender    string `json:"tender,omitempty"`
	Amount    string `json:"amount"`
}

type snapshotResponse struct {
	RegisterID    string              `json:"register_id"`
	Lines         []lineItemResponse  `json:"lines"`
	Total         string              `json:"total"`
	LoyaltyPoints int64               `json:"loyalty_points"`
	EntryText     string              `json:"entry_text"`
	EntryTarget   string              `json:"entry_target"`
	FocusedLineID string              `json:"focused_line_id,omitempty"`
	Payment       paymentViewResponse `json:"payment"`
}

type paymentSessionResponse struct {
	ID        string    `json:"id"`
	Tender    string    `json:"tender"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

type receiptResponse struct {
	SessionID      string    `json:"session_id"`
	Tender         string    `json:"tender"`
	Amount         string    `json:"amount"`
	PointsCredited int64     `json:"points_credited"`
	LoyaltyBalance int64     `json:"loyalty_balance"`
	CompletedAt    time.Time `json:"completed_at"`
}

type paymentResponse struct {
	Session  paymentSessionResponse `json:"session"`
	Snapshot snapshotResponse       `json:"snapshot"`
}

type settlementResponse struct {
	Receipt  receiptResponse  `json:"receipt"`
	Snapshot snapshotResponse `json:"snapshot"`
}

type productResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newSnapshot(registerID string, snap regsession.Snapshot) snapshotResponse {
	lines := make([]lineItemResponse, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		lines = append(lines, lineItemResponse{
			ID:       line.ID,
			Name:     line.Name,
			Price:    money(line.Price),
			Quantity: line.Quantity,
			Subtotal: money(line.Subtotal()),
		})
	}
	return snapshotResponse{
		RegisterID:    registerID,
		Lines:         lines,
		Total:         money(snap.Total),
		LoyaltyPoints: snap.LoyaltyPoints,
		EntryText:     snap.EntryText,
		EntryTarget:   snap.EntryTarget.String(),
		FocusedLineID: snap.FocusedLineID,
		Payment: paymentViewResponse{
			Status:    snap.Payment.Status.String(),
			SessionID: snap.Payment.SessionID,
			Tender:    snap.Payment.Tender,
			Amount:    money(snap.Payment.Amount),
		},
	}
}

func newPaymentSession(s payment.Session) paymentSessionResponse {
	return paymentSessionResponse{
		ID:        s.ID.String(),
		Tender:    s.Tender,
		Amount:    money(s.Amount),
		Status:    s.Status.String(),
		StartedAt: s.StartedAt,
	}
}

func newReceipt(r payment.Receipt) receiptResponse {
	return receiptResponse{
		SessionID:      r.SessionID.String(),
		Tender:         r.Tender,
		Amount:         money(r.Amount),
		PointsCredited: r.PointsCredited,
		LoyaltyBalance: r.LoyaltyBalance,
		CompletedAt:    r.CompletedAt,
	}
}

func newProducts(products []types.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{ID: p.ID, Name: p.Name, Price: money(p.Price)})
	}
	return out
}
