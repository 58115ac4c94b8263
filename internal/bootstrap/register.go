// Package bootstrap assembles a register service from configuration. Both the
// HTTP service and the terminal register start from here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/pos-register/internal/catalog"
	"github.com/angelmondragon/pos-register/internal/loyalty"
	"github.com/angelmondragon/pos-register/internal/payment"
	"github.com/angelmondragon/pos-register/internal/session"
	"github.com/angelmondragon/pos-register/pkg/config"
	"github.com/angelmondragon/pos-register/pkg/db"
	"github.com/angelmondragon/pos-register/pkg/enums"
	"github.com/angelmondragon/pos-register/pkg/logger"
	"github.com/angelmondragon/pos-register/pkg/metrics"
)

type Params struct {
	Config *config.Config
	Logger *logger.Logger
	// DB is optional. Without it the catalog must be static and loyalty lives in memory.
	DB       *db.Client
	Registry prometheus.Registerer
}

// Register builds the session service described by the config.
func Register(ctx context.Context, params Params) (session.Service, error) {
	cfg := params.Config
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	provider, err := catalogProvider(cfg, params.DB)
	if err != nil {
		return nil, err
	}

	var (
		store    loyalty.Store
		recorder session.SettlementRecorder
	)
	if cfg.FeatureFlags.PersistLoyalty {
		if params.DB == nil {
			return nil, fmt.Errorf("%s requires a database", config.EnvPersistLoyalty)
		}
		repo := loyalty.NewRepository(params.DB.DB())
		store = repo
		rec, err := session.NewLoyaltyRecorder(repo, cfg.Loyalty.AccountID)
		if err != nil {
			return nil, err
		}
		recorder = rec
	}

	account, err := loyalty.Open(ctx, store, cfg.Loyalty.AccountID, cfg.Loyalty.OpeningBalance)
	if err != nil {
		return nil, fmt.Errorf("open loyalty account: %w", err)
	}

	orchestrator, err := session.NewOrchestrator(provider, account, payment.NewDesk(cfg.Loyalty.PointsPerUnit))
	if err != nil {
		return nil, err
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"register_id":     cfg.Register.ID,
		"catalog_source":  cfg.Catalog.Source,
		"loyalty_balance": account.Balance(),
		"persist_loyalty": recorder != nil,
	}), "register ready")

	return session.NewService(session.ServiceParams{
		RegisterID:   cfg.Register.ID,
		Orchestrator: orchestrator,
		Logger:       logg,
		Metrics:      metrics.NewSessionMetrics(params.Registry),
		Recorder:     recorder,
	})
}

func catalogProvider(cfg *config.Config, client *db.Client) (catalog.Provider, error) {
	source, err := enums.ParseCatalogSource(cfg.Catalog.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.EnvCatalogSource, err)
	}
	switch source {
	case enums.CatalogSourceDB:
		if client == nil {
			return nil, fmt.Errorf("%s=db requires a database", config.EnvCatalogSource)
		}
		return catalog.NewRepository(client.DB()), nil
	default:
		static, err := catalog.NewStatic(catalog.DefaultMenu())
		if err != nil {
			return nil, err
		}
		return static, nil
	}
}
