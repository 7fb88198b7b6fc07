package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"vtu-service/internal/models"
	"vtu-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const maxWebhookBody = 1 << 20

type Handler struct {
	wallets   *service.WalletService
	purchases *service.PurchaseService
	catalog   *service.CatalogService
	webhooks  *service.WebhookService
	funding   *service.FundingService
	log       *slog.Logger
}

func NewHandler(wallets *service.WalletService, purchases *service.PurchaseService, catalog *service.CatalogService,
	webhooks *service.WebhookService, funding *service.FundingService, log *slog.Logger) *Handler {
	return &Handler{
		wallets:   wallets,
		purchases: purchases,
		catalog:   catalog,
		webhooks:  webhooks,
		funding:   funding,
		log:       log,
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Required  string `json:"required,omitempty"`
	Available string `json:"available,omitempty"`
}

type purchaseResponse struct {
	Message     string                      `json:"message"`
	Transaction *models.PurchaseTransaction `json:"transaction"`
}

func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.wallets.CreateWallet(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, wallet)
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.wallets.GetWallet(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, wallet)
}

func (h *Handler) ListWalletTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	entries, err := h.wallets.ListTransactions(r.Context(), userIDFrom(r.Context()), limit, offset)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.WalletTransaction{}
	}
	respondWithJSON(w, http.StatusOK, entries)
}

func (h *Handler) FundWallet(w http.ResponseWriter, r *http.Request) {
	var req models.FundingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	funding, err := h.funding.InitializeFunding(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, funding)
}

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	p, err := h.purchases.CreatePurchase(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		var pce *service.ProviderCallError
		if errors.As(err, &pce) && p != nil {
			h.log.Error("purchase failed at provider",
				slog.String("op", "api.CreatePurchase"),
				slog.String("external_reference", p.ExternalReference),
				slog.String("error", err.Error()),
			)
			respondWithJSON(w, http.StatusInternalServerError, purchaseResponse{
				Message:     "The provider could not complete this purchase. Your wallet has been refunded.",
				Transaction: p,
			})
			return
		}
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, purchaseResponse{Message: purchaseMessage(p.Status), Transaction: p})
}

func purchaseMessage(status models.TransactionStatus) string {
	switch status {
	case models.StatusSuccess:
		return "Purchase successful"
	case models.StatusPending:
		return "Purchase is processing"
	}
	return "Purchase failed"
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "external_reference")
	p, err := h.purchases.GetByExternalReference(r.Context(), userIDFrom(r.Context()), ref)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	serviceType := models.ServiceType(r.URL.Query().Get("type"))
	providers, err := h.catalog.ListProviders(r.Context(), serviceType)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if providers == nil {
		providers = []models.ServiceProvider{}
	}
	respondWithJSON(w, http.StatusOK, providers)
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid provider ID", Field: "id"})
		return
	}
	activeOnly := r.URL.Query().Get("all") != "true"

	plans, err := h.catalog.ListPlans(r.Context(), providerID, activeOnly)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if plans == nil {
		plans = []models.ServicePlan{}
	}
	respondWithJSON(w, http.StatusOK, plans)
}

func (h *Handler) UpdateCommission(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid provider ID", Field: "id"})
		return
	}
	var update models.CommissionUpdate
	if err := render.DecodeJSON(r.Body, &update); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	provider, err := h.catalog.UpdateCommission(r.Context(), providerID, update)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, provider)
}

func (h *Handler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.SyncFromBiller(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// BillerWebhook acknowledges every well-formed delivery. Anything but a 2xx
// makes the biller redeliver.
func (h *Handler) BillerWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.webhooks.HandleBillerWebhook(r.Context(), body); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid webhook payload"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"response": "success"})
}

func (h *Handler) GatewayWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Signature")
	if signature == "" {
		signature = r.Header.Get("X-Paystack-Signature")
	}

	if err := h.webhooks.HandleGatewayWebhook(r.Context(), body, signature); err != nil {
		var sigErr *service.SignatureVerificationError
		if errors.As(err, &sigErr) {
			http.Error(w, "Invalid signature", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid webhook payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *service.ValidationError
		ibe *service.InsufficientBalanceError
		pce *service.ProviderCallError
	)
	switch {
	case errors.As(err, &ve):
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
	case errors.As(err, &ibe):
		respondWithJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "Insufficient balance",
			Required:  ibe.Required.StringFixed(2),
			Available: ibe.Available.StringFixed(2),
		})
	case errors.Is(err, service.ErrWalletNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrProviderNotFound):
		respondWithJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &pce):
		h.log.Error("provider call failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		respondWithJSON(w, http.StatusBadGateway, errorResponse{Error: "Upstream provider unavailable"})
	default:
		h.log.Error("request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &service.ValidationError{Field: name, Reason: "must be a non-negative integer"}
	}
	return n, nil
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
