package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/pos-register/internal/catalog"
	"github.com/angelmondragon/pos-register/pkg/config"
	"github.com/angelmondragon/pos-register/pkg/db"
	"github.com/angelmondragon/pos-register/pkg/logger"
)

// SeedCatalog upserts the default menu into the products table. Re-running it
// updates names and prices and keeps rows added by hand.
func SeedCatalog(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	if client == nil {
		return errors.New("database is required to seed the catalog")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	menu := catalog.DefaultMenu()
	if err := catalog.NewRepository(client.DB()).Seed(ctx, menu); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logg.Info(logg.WithField(ctx, "products", len(menu)), "catalog seeded")
	return nil
}

// MaybeSeedDev seeds the default menu on startup in dev when the auto-migrate
// flag is on.
func MaybeSeedDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	return SeedCatalog(ctx, logg, client)
}
