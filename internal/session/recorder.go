package session

import (
	"context"
	"fmt"

	"github.com/angelmondragon/pos-register/internal/loyalty"
	"github.com/angelmondragon/pos-register/internal/payment"
)

// LoyaltyRecorder stores the post-settlement balance of one loyalty account.
type LoyaltyRecorder struct {
	store     loyalty.Store
	accountID string
}

// NewLoyaltyRecorder returns a recorder writing to store under accountID.
func NewLoyaltyRecorder(store loyalty.Store, accountID string) (*LoyaltyRecorder, error) {
	if store == nil {
		return nil, fmt.Errorf("loyalty store required")
	}
	if accountID == "" {
		return nil, fmt.Errorf("loyalty account id required")
	}
	return &LoyaltyRecorder{store: store, accountID: accountID}, nil
}

func (r *LoyaltyRecorder) RecordSettlement(ctx context.Context, receipt payment.Receipt) error {
	return r.store.Save(ctx, r.accountID, receipt.LoyaltyBalance)
}
