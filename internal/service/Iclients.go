package service

import (
	"context"

	"vtu-service/internal/biller"
	"vtu-service/internal/gateway"
	"vtu-service/internal/lock"
	"vtu-service/internal/models"

	"github.com/shopspring/decimal"
)

type BillerClient interface {
	Pay(context.Context, biller.PayRequest) (*biller.Outcome, error)
	Requery(ctx context.Context, requestID string) (*biller.Outcome, error)
	ServiceVariations(ctx context.Context, serviceID string) ([]models.Variation, error)
}

type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal, reference string) (*gateway.Initialization, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Lock, error)
}
