package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	mockrepository "vtu-service/internal/mock/mock_repository"
	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestWalletService_CreateWallet(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userID := uuid.New()
		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			CreateWallet(gomock.Any(), userID).
			DoAndReturn(func(_ context.Context, id uuid.UUID) (*models.Wallet, error) {
				return &models.Wallet{ID: uuid.New(), UserID: id}, nil
			})

		s := NewWalletService(mockRepo, slog.Default())
		wallet, err := s.CreateWallet(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, userID, wallet.UserID)
	})

	t.Run("missing user", func(t *testing.T) {
		s := NewWalletService(nil, slog.Default())
		_, err := s.CreateWallet(context.Background(), uuid.Nil)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "user_id", ve.Field)
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			CreateWallet(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db error"))

		s := NewWalletService(mockRepo, slog.Default())
		wallet, err := s.CreateWallet(context.Background(), uuid.New())

		assert.ErrorContains(t, err, "failed to create wallet")
		assert.Nil(t, wallet)
	})
}

func TestWalletService_GetWallet(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userID := uuid.New()
		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			GetWalletByUserID(gomock.Any(), userID).
			Return(nil, repository.ErrWalletNotFound)

		s := NewWalletService(mockRepo, slog.Default())
		wallet, err := s.GetWallet(context.Background(), userID)

		assert.ErrorIs(t, err, ErrWalletNotFound)
		assert.Nil(t, wallet)
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			GetWalletByUserID(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db error"))

		s := NewWalletService(mockRepo, slog.Default())
		_, err := s.GetWallet(context.Background(), uuid.New())

		assert.ErrorContains(t, err, "failed to retrieve wallet")
	})
}

func TestWalletService_ListTransactions_ClampsPaging(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	mockRepo := mockrepository.NewMockWalletRepository(ctrl)
	mockRepo.EXPECT().
		ListEntries(gomock.Any(), userID, maxPageSize, 0).
		Return([]models.WalletTransaction{{Reference: "FND_1"}}, nil)

	s := NewWalletService(mockRepo, slog.Default())
	entries, err := s.ListTransactions(context.Background(), userID, 1000, -3)

	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWalletService_Debit(t *testing.T) {
	entry := models.LedgerEntry{
		UserID:    uuid.New(),
		Amount:    decimal.NewFromInt(100),
		Reference: "manual-1",
	}

	t.Run("validation error", func(t *testing.T) {
		s := NewWalletService(nil, slog.Default())
		invalid := entry
		invalid.Amount = decimal.NewFromInt(-100)

		_, err := s.Debit(context.Background(), invalid)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "amount", ve.Field)
	})

	t.Run("amount finer than kobo", func(t *testing.T) {
		s := NewWalletService(nil, slog.Default())
		invalid := entry
		invalid.Amount = decimal.RequireFromString("10.001")

		_, err := s.Debit(context.Background(), invalid)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "amount", ve.Field)
	})

	t.Run("success on first try", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			ApplyEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.LedgerEntry) (*models.WalletTransaction, error) {
				assert.Equal(t, models.EntryTypeDebit, e.Type)
				return &models.WalletTransaction{Type: e.Type, Amount: e.Amount}, nil
			})

		s := NewWalletService(mockRepo, slog.Default())
		wt, err := s.Debit(context.Background(), entry)

		require.NoError(t, err)
		assert.Equal(t, models.EntryTypeDebit, wt.Type)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			ApplyEntry(gomock.Any(), gomock.Any()).
			Return(nil, &repository.BalanceError{Required: decimal.NewFromInt(100), Available: decimal.NewFromInt(40)})

		s := NewWalletService(mockRepo, slog.Default())
		_, err := s.Debit(context.Background(), entry)

		var ibe *InsufficientBalanceError
		require.ErrorAs(t, err, &ibe)
		assert.Equal(t, "40", ibe.Available.String())
	})

	t.Run("retries concurrent modification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		gomock.InOrder(
			mockRepo.EXPECT().ApplyEntry(gomock.Any(), gomock.Any()).Times(2).Return(nil, repository.ErrConcurrentModification),
			mockRepo.EXPECT().ApplyEntry(gomock.Any(), gomock.Any()).Return(&models.WalletTransaction{}, nil),
		)

		s := NewWalletService(mockRepo, slog.Default())
		_, err := s.Credit(context.Background(), entry)

		assert.NoError(t, err)
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			ApplyEntry(gomock.Any(), gomock.Any()).
			Times(maxRetries).
			Return(nil, repository.ErrConcurrentModification)

		s := NewWalletService(mockRepo, slog.Default())
		_, err := s.Debit(context.Background(), entry)

		assert.ErrorIs(t, err, ErrOperationFailed)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mockrepository.NewMockWalletRepository(ctrl)
		mockRepo.EXPECT().
			ApplyEntry(gomock.Any(), gomock.Any()).
			Times(1).
			Return(nil, errors.New("connection reset"))

		s := NewWalletService(mockRepo, slog.Default())
		_, err := s.Debit(context.Background(), entry)

		assert.ErrorContains(t, err, "failed to post ledger entry")
	})
}
