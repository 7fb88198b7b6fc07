package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID", "Idempotency-Key"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/biller", h.BillerWebhook)
		r.Post("/gateway", h.GatewayWebhook)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/providers", h.ListProviders)
		r.Get("/providers/{id}/plans", h.ListPlans)

		r.Route("/admin", func(r chi.Router) {
			r.Put("/providers/{id}/commission", h.UpdateCommission)
			r.Post("/catalog/{serviceID}/sync", h.SyncCatalog)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Post("/wallet", h.CreateWallet)
			r.Get("/wallet", h.GetWallet)
			r.Get("/wallet/transactions", h.ListWalletTransactions)
			r.Post("/wallet/fund", h.FundWallet)

			r.Post("/purchases", h.CreatePurchase)
			r.Get("/transactions/{external_reference}", h.GetTransaction)
		})
	})

	return r
}
