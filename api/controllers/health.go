package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/pos-register/api/responses"
	"github.com/angelmondragon/pos-register/pkg/config"
	"github.com/angelmondragon/pos-register/pkg/db"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/angelmondragon/pos-register/pkg/logger"
	"github.com/angelmondragon/pos-register/pkg/redis"
)

const readyTimeout = 2 * time.Second

const envHeader = "X-POS-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the optional backing stores. A nil pinger is reported as disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{
			"database": checkDependency(ctx, dbP),
			"redis":    checkDependency(ctx, redisP),
		}
		for name, status := range checks {
			if status == "down" {
				responses.WriteError(ctx, logg, w, pkgerrors.Newf(pkgerrors.CodeDependency, "%s unavailable", name))
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{
			"status":      "ready",
			"register_id": cfg.Register.ID,
			"checks":      checks,
		})
	}
}

type pinger interface {
	Ping(context.Context) error
}

func checkDependency(ctx context.Context, p pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
