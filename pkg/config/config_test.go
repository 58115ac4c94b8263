package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Loyalty.OpeningBalance != 150 {
		t.Fatalf("expected opening balance 150, got %d", cfg.Loyalty.OpeningBalance)
	}
	if cfg.Loyalty.PointsPerUnit != 10 {
		t.Fatalf("expected 10 points per unit, got %d", cfg.Loyalty.PointsPerUnit)
	}
	if cfg.Catalog.Source != "static" {
		t.Fatalf("expected static catalog, got %q", cfg.Catalog.Source)
	}
	if cfg.DB.Enabled() {
		t.Fatalf("expected no datasource without DB env, got %q", cfg.DB.DSN)
	}
	if cfg.Redis.Enabled() {
		t.Fatal("expected redis disabled without URL")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_BuildsDSNFromParts(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDBHost, "db.local")
	t.Setenv(EnvDBUser, "pos")
	t.Setenv(EnvDBName, "register")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !strings.HasPrefix(cfg.DB.DSN, "postgres://pos@db.local:5432/register") {
		t.Fatalf("unexpected DSN %q", cfg.DB.DSN)
	}
}

func TestLoad_HostWithoutUserFails(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDBHost, "db.local")

	if _, err := Load(); err == nil {
		t.Fatal("expected partial DB settings to fail")
	}
}

func TestLoad_SQLiteFlagSetsDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvUseSQLite, "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.Driver != DBDriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		t.Fatal("expected default sqlite DSN")
	}
}

func TestLoad_RejectsNegativeLoyaltySettings(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvLoyaltyOpeningBalance, "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected negative opening balance to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "production")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
