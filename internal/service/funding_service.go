package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const fundingReferencePrefix = "FND_"

type FundingService struct {
	wallets    WalletRepository
	gatewayTxs GatewayRepository
	gateway    PaymentGateway
	log        *slog.Logger
}

func NewFundingService(wallets WalletRepository, gatewayTxs GatewayRepository, paymentGateway PaymentGateway, log *slog.Logger) *FundingService {
	return &FundingService{
		wallets:    wallets,
		gatewayTxs: gatewayTxs,
		gateway:    paymentGateway,
		log:        log,
	}
}

// InitializeFunding records a pending funding attempt and asks the gateway
// for a checkout URL. The wallet is credited later by the charge.success
// webhook for the returned reference.
func (s *FundingService) InitializeFunding(ctx context.Context, userID uuid.UUID, req models.FundingRequest) (*models.PaymentGatewayTransaction, error) {
	op := "service.InitializeFunding"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	if !req.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}

	if _, err := s.wallets.GetWalletByUserID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	funding := &models.PaymentGatewayTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		Reference: fundingReferencePrefix + ulid.Make().String(),
		Amount:    req.Amount.Round(2),
		Status:    models.GatewayStatusPending,
	}
	log = log.With(slog.String("reference", funding.Reference))

	if err := s.gatewayTxs.CreateGatewayTransaction(ctx, funding); err != nil {
		log.Error("failed to record funding attempt", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record funding attempt: %w", err)
	}

	session, err := s.gateway.InitializeTransaction(ctx, req.Email, funding.Amount, funding.Reference)
	if err != nil {
		log.Error("gateway initialization failed", slog.String("error", err.Error()))
		if _, markErr := s.gatewayTxs.MarkGatewayFailed(context.WithoutCancel(ctx), funding.Reference, nil); markErr != nil {
			log.Error("failed to mark funding attempt failed", slog.String("error", markErr.Error()))
		}
		return nil, &ProviderCallError{Reference: funding.Reference, Err: err}
	}

	if err := s.gatewayTxs.SetAuthorization(ctx, funding.Reference, session.AuthorizationURL, session.Raw); err != nil {
		log.Error("failed to store authorization url", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to store authorization url: %w", err)
	}
	funding.AuthorizationURL = session.AuthorizationURL
	funding.GatewayResponse = session.Raw

	log.Info("funding initialized", slog.String("amount", funding.Amount.String()))
	return funding, nil
}
