package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/pos-register/internal/numpad"
	"github.com/angelmondragon/pos-register/internal/payment"
	"github.com/angelmondragon/pos-register/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/angelmondragon/pos-register/pkg/logger"
	"github.com/angelmondragon/pos-register/pkg/metrics"
	"github.com/angelmondragon/pos-register/pkg/types"
)

const (
	ActionSelectProduct   = "select_product"
	ActionFocusLine       = "focus_line"
	ActionNumpadKey       = "numpad_key"
	ActionCommitEntry     = "commit_entry"
	ActionSetQuantity     = "set_quantity"
	ActionRemoveLine      = "remove_line"
	ActionInitiatePayment = "initiate_payment"
	ActionCompletePayment = "complete_payment"
	ActionCancelPayment   = "cancel_payment"
)

// SettlementRecorder persists the outcome of a completed settlement.
type SettlementRecorder interface {
	RecordSettlement(ctx context.Context, receipt payment.Receipt) error
}

// PaymentResult pairs a payment session with the register state after it.
type PaymentResult struct {
	Session  payment.Session `json:"session"`
	Snapshot Snapshot        `json:"snapshot"`
}

// SettlementResult pairs a receipt with the register state after it.
type SettlementResult struct {
	Receipt  payment.Receipt `json:"receipt"`
	Snapshot Snapshot        `json:"snapshot"`
}

// Service is the register's action surface. Calls are handled one at a time
// in arrival order.
type Service interface {
	RegisterID() string
	Snapshot(ctx context.Context) Snapshot
	Catalog(ctx context.Context) ([]types.Product, error)
	Subscribe(l Listener)
	SelectProduct(ctx context.Context, productID string) (Snapshot, error)
	FocusLine(ctx context.Context, lineID string, target enums.EntryTarget) (Snapshot, error)
	NumpadKey(ctx context.Context, key numpad.Key) (Snapshot, error)
	CommitEntry(ctx context.Context) (Snapshot, error)
	SetQuantity(ctx context.Context, lineID string, quantity int) (Snapshot, error)
	RemoveLine(ctx context.Context, lineID string) (Snapshot, error)
	InitiatePayment(ctx context.Context, tender string) (PaymentResult, error)
	AcknowledgePaymentComplete(ctx context.Context) (SettlementResult, error)
	CancelPayment(ctx context.Context) (PaymentResult, error)
}

// ServiceParams wires a register service.
type ServiceParams struct {
	RegisterID   string
	Orchestrator *Orchestrator
	Logger       *logger.Logger
	Metrics      *metrics.SessionMetrics
	Recorder     SettlementRecorder
}

type service struct {
	mu         sync.Mutex
	registerID string
	core       *Orchestrator
	logg       *logger.Logger
	metrics    *metrics.SessionMetrics
	recorder   SettlementRecorder

	// listeners are notified outside mu. outbox holds snapshots not yet
	// delivered; delivering is set while one caller drains it.
	listeners  []Listener
	outbox     []Snapshot
	delivering bool
}

// NewService builds the serialized register service.
func NewService(params ServiceParams) (Service, error) {
	if params.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator required")
	}
	registerID := strings.TrimSpace(params.RegisterID)
	if registerID == "" {
		return nil, fmt.Errorf("register id required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	s := &service{
		registerID: registerID,
		core:       params.Orchestrator,
		logg:       logg,
		metrics:    params.Metrics,
		recorder:   params.Recorder,
	}
	// Runs inside fn, under mu.
	s.core.Subscribe(func(snap Snapshot) {
		s.outbox = append(s.outbox, snap)
	})
	return s, nil
}

func (s *service) RegisterID() string {
	return s.registerID
}

func (s *service) Snapshot(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Snapshot()
}

func (s *service) Catalog(ctx context.Context) ([]types.Product, error) {
	return s.core.catalog.ListProducts(ctx)
}

func (s *service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *service) SelectProduct(ctx context.Context, productID string) (Snapshot, error) {
	return s.apply(ctx, ActionSelectProduct, map[string]any{"product_id": productID}, func() error {
		_, err := s.core.SelectProduct(ctx, productID)
		return err
	})
}

func (s *service) FocusLine(ctx context.Context, lineID string, target enums.EntryTarget) (Snapshot, error) {
	fields := map[string]any{"line_id": lineID, "target": target.String()}
	return s.apply(ctx, ActionFocusLine, fields, func() error {
		return s.core.FocusLine(lineID, target)
	})
}

func (s *service) NumpadKey(ctx context.Context, key numpad.Key) (Snapshot, error) {
	return s.apply(ctx, ActionNumpadKey, map[string]any{"key": key.String()}, func() error {
		return s.core.NumpadKey(key)
	})
}

func (s *service) CommitEntry(ctx context.Context) (Snapshot, error) {
	return s.apply(ctx, ActionCommitEntry, nil, s.core.CommitEntry)
}

func (s *service) SetQuantity(ctx context.Context, lineID string, quantity int) (Snapshot, error) {
	fields := map[string]any{"line_id": lineID, "quantity": quantity}
	return s.apply(ctx, ActionSetQuantity, fields, func() error {
		return s.core.SetQuantity(lineID, quantity)
	})
}

func (s *service) RemoveLine(ctx context.Context, lineID string) (Snapshot, error) {
	return s.apply(ctx, ActionRemoveLine, map[string]any{"line_id": lineID}, func() error {
		return s.core.RemoveLine(lineID)
	})
}

func (s *service) InitiatePayment(ctx context.Context, tender string) (PaymentResult, error) {
	var started payment.Session
	snap, err := s.apply(ctx, ActionInitiatePayment, map[string]any{"tender": tender}, func() error {
		var err error
		started, err = s.core.InitiatePayment(tender)
		return err
	})
	if err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{Session: started, Snapshot: snap}, nil
}

// AcknowledgePaymentComplete settles the pending session and hands the receipt
// to the recorder while the register is still locked, so stored balances are
// written in settlement order. A recorder failure is logged and counted; the
// in-memory settlement stands.
func (s *service) AcknowledgePaymentComplete(ctx context.Context) (SettlementResult, error) {
	var receipt payment.Receipt
	snap, err := s.apply(ctx, ActionCompletePayment, nil, func() error {
		var err error
		receipt, err = s.core.AcknowledgePaymentComplete()
		if err != nil {
			return err
		}
		recordCtx := s.logg.WithRegisterID(ctx, s.registerID)
		recordCtx = s.logg.WithPaymentSessionID(recordCtx, receipt.SessionID.String())
		s.metrics.ObserveSettlement(enums.PaymentStatusCompleted.String())
		s.metrics.ObserveCompleted(receipt.Tender, receipt.Amount, receipt.PointsCredited)
		s.record(recordCtx, receipt)
		return nil
	})
	if err != nil {
		return SettlementResult{}, err
	}
	return SettlementResult{Receipt: receipt, Snapshot: snap}, nil
}

func (s *service) CancelPayment(ctx context.Context) (PaymentResult, error) {
	var cancelled payment.Session
	snap, err := s.apply(ctx, ActionCancelPayment, nil, func() error {
		var err error
		cancelled, err = s.core.CancelPayment()
		return err
	})
	if err != nil {
		return PaymentResult{}, err
	}
	s.metrics.ObserveSettlement(enums.PaymentStatusCancelled.String())
	return PaymentResult{Session: cancelled, Snapshot: snap}, nil
}

// apply runs fn under the register lock and logs and counts its outcome. The
// returned snapshot is taken before the lock is released. Listeners are
// notified after it is released.
func (s *service) apply(ctx context.Context, action string, fields map[string]any, fn func() error) (Snapshot, error) {
	s.mu.Lock()
	snap, err := s.applyLocked(ctx, action, fields, fn)
	s.flushAndUnlock()
	return snap, err
}

func (s *service) applyLocked(ctx context.Context, action string, fields map[string]any, fn func() error) (Snapshot, error) {

	ctx = s.logg.WithRegisterID(ctx, s.registerID)
	ctx = s.logg.WithField(ctx, "action", action)
	if len(fields) > 0 {
		ctx = s.logg.WithFields(ctx, fields)
	}

	err := fn()
	s.metrics.ObserveAction(action, err)
	if err != nil {
		s.logRejection(ctx, action, err)
		return Snapshot{}, err
	}
	s.logg.Debug(ctx, "session."+action)
	return s.core.Snapshot(), nil
}

// flushAndUnlock releases mu and delivers queued snapshots in the order they
// were produced. Only one caller delivers at a time; a caller that finds
// delivery in progress leaves its snapshots to that caller.
func (s *service) flushAndUnlock() {
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.outbox) > 0 {
		batch := s.outbox
		s.outbox = nil
		listeners := s.listeners[:len(s.listeners):len(s.listeners)]
		s.mu.Unlock()
		for _, snap := range batch {
			for _, l := range listeners {
				l(cloneSnapshot(snap))
			}
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

func (s *service) logRejection(ctx context.Context, action string, err error) {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() == pkgerrors.CodeInternal || typed.Code() == pkgerrors.CodeDependency {
		s.logg.Error(ctx, "session."+action+".failed", err)
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"error_code": string(typed.Code()),
		"reason":     typed.Message(),
	})
	s.logg.Info(ctx, "session."+action+".rejected")
}

func (s *service) record(ctx context.Context, receipt payment.Receipt) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordSettlement(ctx, receipt); err != nil {
		s.metrics.IncRecordFailure()
		s.logg.Error(ctx, "session.settlement.record_failed", err)
		return
	}
	s.logg.Info(ctx, "session.settlement.recorded")
}
