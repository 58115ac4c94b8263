package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pos-register/api/controllers"
	sessioncontrollers "github.com/angelmondragon/pos-register/api/controllers/session"
	"github.com/angelmondragon/pos-register/api/middleware"
	"github.com/angelmondragon/pos-register/internal/session"
	"github.com/angelmondragon/pos-register/pkg/config"
	"github.com/angelmondragon/pos-register/pkg/db"
	"github.com/angelmondragon/pos-register/pkg/logger"
	"github.com/angelmondragon/pos-register/pkg/redis"
)

// Deps collects what the router needs. Optional stores are left nil when disabled.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Register    session.Service
	DB          db.Pinger
	Redis       redis.Pinger
	Idempotency redis.IdempotencyStore
	Gatherer    prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg, svc := deps.Config, deps.Logger, deps.Register

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Register(cfg.Register.ID, logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(deps.Idempotency, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", sessioncontrollers.Catalog(svc, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessioncontrollers.Fetch(svc, logg))
			r.Post("/products", sessioncontrollers.SelectProduct(svc, logg))
			r.Post("/focus", sessioncontrollers.FocusLine(svc, logg))
			r.Post("/numpad", sessioncontrollers.NumpadKey(svc, logg))
			r.Post("/commit", sessioncontrollers.CommitEntry(svc, logg))
			r.Put("/lines/{lineId}", sessioncontrollers.SetQuantity(svc, logg))
			r.Delete("/lines/{lineId}", sessioncontrollers.RemoveLine(svc, logg))

			r.With(idempotent).Post("/payment", sessioncontrollers.InitiatePayment(svc, logg))
			r.With(idempotent).Post("/payment/complete", sessioncontrollers.CompletePayment(svc, logg))
			r.With(idempotent).Post("/payment/cancel", sessioncontrollers.CancelPayment(svc, logg))
		})
	})

	return r
}
