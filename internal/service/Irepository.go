package service

import (
	"context"
	"encoding/json"
	"time"

	"vtu-service/internal/models"

	"github.com/google/uuid"
)

type WalletRepository interface {
	CreateWallet(context.Context, uuid.UUID) (*models.Wallet, error)
	GetWalletByUserID(context.Context, uuid.UUID) (*models.Wallet, error)
	ApplyEntry(context.Context, models.LedgerEntry) (*models.WalletTransaction, error)
	ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error)
}

type TransactionRepository interface {
	CreateWithDebit(context.Context, *models.PurchaseTransaction) (*models.PurchaseTransaction, error)
	GetTransaction(context.Context, uuid.UUID) (*models.PurchaseTransaction, error)
	GetByExternalReference(context.Context, string) (*models.PurchaseTransaction, error)
	GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.PurchaseTransaction, error)
	Resolve(ctx context.Context, id uuid.UUID, update models.StatusUpdate, refund *models.Refund) (*models.PurchaseTransaction, *models.WalletTransaction, error)
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.PurchaseTransaction, error)
}

type GatewayRepository interface {
	CreateGatewayTransaction(context.Context, *models.PaymentGatewayTransaction) error
	GetGatewayTransaction(ctx context.Context, reference string) (*models.PaymentGatewayTransaction, error)
	SetAuthorization(ctx context.Context, reference, authorizationURL string, response json.RawMessage) error
	MarkGatewayFailed(ctx context.Context, reference string, response json.RawMessage) (*models.PaymentGatewayTransaction, error)
	CompleteWithCredit(ctx context.Context, reference string, response json.RawMessage, description string) (*models.PaymentGatewayTransaction, *models.WalletTransaction, error)
}

type CatalogRepository interface {
	CreateProvider(context.Context, *models.ServiceProvider) error
	GetProvider(context.Context, uuid.UUID) (*models.ServiceProvider, error)
	GetProviderByCode(ctx context.Context, code string, serviceType models.ServiceType) (*models.ServiceProvider, error)
	ListProviders(context.Context, models.ServiceType) ([]models.ServiceProvider, error)
	UpdateCommission(context.Context, uuid.UUID, models.CommissionUpdate) (*models.ServiceProvider, error)
	GetPlan(ctx context.Context, providerID uuid.UUID, code string) (*models.ServicePlan, error)
	ListPlans(ctx context.Context, providerID uuid.UUID, activeOnly bool) ([]models.ServicePlan, error)
	SyncPlans(ctx context.Context, providerID uuid.UUID, variations []models.Variation) (models.SyncResult, error)
}
