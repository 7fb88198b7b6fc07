package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vtu-service/internal/commission"
	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type WalletService struct {
	repo WalletRepository
	log  *slog.Logger
}

func NewWalletService(repo WalletRepository, log *slog.Logger) *WalletService {
	return &WalletService{
		repo: repo,
		log:  log,
	}
}

// CreateWallet opens a wallet for userID, or returns the one it already has.
func (s *WalletService) CreateWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	op := "service.CreateWallet"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	if userID == uuid.Nil {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}

	wallet, err := s.repo.CreateWallet(ctx, userID)
	if err != nil {
		log.Error("failed to create wallet", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	log.Info("wallet ready", slog.String("wallet_id", wallet.ID.String()))
	return wallet, nil
}

func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	op := "service.GetWallet"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	wallet, err := s.repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			log.Warn("wallet not found")
			return nil, ErrWalletNotFound
		}
		log.Error("failed to retrieve wallet", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve wallet: %w", err)
	}
	return wallet, nil
}

func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	op := "service.ListTransactions"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.repo.ListEntries(ctx, userID, limit, offset)
	if err != nil {
		log.Error("failed to list wallet transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return entries, nil
}

func (s *WalletService) Credit(ctx context.Context, entry models.LedgerEntry) (*models.WalletTransaction, error) {
	entry.Type = models.EntryTypeCredit
	return s.post(ctx, entry)
}

func (s *WalletService) Debit(ctx context.Context, entry models.LedgerEntry) (*models.WalletTransaction, error) {
	entry.Type = models.EntryTypeDebit
	return s.post(ctx, entry)
}

func (s *WalletService) post(ctx context.Context, entry models.LedgerEntry) (*models.WalletTransaction, error) {
	op := "service.PostLedgerEntry"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", entry.UserID.String()),
		slog.String("type", string(entry.Type)),
		slog.String("reference", entry.Reference),
	)

	if !entry.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !commission.InScale(entry.Amount) {
		return nil, &ValidationError{Field: "amount", Reason: "must have at most 2 decimal places"}
	}
	if entry.Reference == "" {
		return nil, &ValidationError{Field: "reference", Reason: "is required"}
	}

	wt, err := withRetry(ctx, log, func() (*models.WalletTransaction, error) {
		return s.repo.ApplyEntry(ctx, entry)
	})
	if err != nil {
		if be := balanceError(err); be != nil {
			log.Warn("debit rejected", slog.String("error", be.Error()))
			return nil, be
		}
		if errors.Is(err, repository.ErrWalletNotFound) {
			log.Warn("wallet not found")
			return nil, ErrWalletNotFound
		}
		log.Error("failed to post ledger entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to post ledger entry: %w", err)
	}

	log.Info("ledger entry posted",
		slog.String("amount", wt.Amount.String()),
		slog.String("balance_after", wt.BalanceAfter.String()),
	)
	return wt, nil
}
