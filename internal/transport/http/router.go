package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Anand1513/wash-while-you-shop/internal/middleware"
)

// NewRouter assembles the full HTTP facade: public auth routes, the
// session-protected application routes, and the admin-gated group.
func NewRouter(session SessionService, ledger LedgerService, wallet WalletService, jwtCfg JWTConfig, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(PrometheusMetricsMiddleware)

	validate := validator.New()

	authHandler := NewAuthHandler(session, jwtCfg, logger, validate)
	rewardsHandler := NewRewardsHandler(ledger, logger, validate)
	walletHandler := NewWalletHandler(wallet, logger, validate)
	adminHandler := NewAdminHandler(session, ledger, logger)

	authMW := middleware.AuthMiddleware(jwtCfg.Secret, session, logger)
	adminMW := middleware.AdminOnly(logger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(authRouter chi.Router) {
		authHandler.RegisterRoutes(authRouter)
	})

	r.Group(func(protected chi.Router) {
		protected.Use(authMW)
		protected.Route("/auth/session", func(sr chi.Router) {
			authHandler.RegisterProtectedRoutes(sr)
		})
		rewardsHandler.RegisterRoutes(protected)
		walletHandler.RegisterRoutes(protected)
	})

	r.Route("/admin", func(adminRouter chi.Router) {
		adminRouter.Use(authMW)
		adminRouter.Use(adminMW)
		adminHandler.RegisterRoutes(adminRouter)
	})

	return r
}
