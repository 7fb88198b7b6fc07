package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fundedWallet(t *testing.T, s *Store, amount int64) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	_, err := s.CreateWallet(context.Background(), userID)
	require.NoError(t, err)
	if amount > 0 {
		_, err = s.ApplyEntry(context.Background(), models.LedgerEntry{
			UserID: userID, Type: models.EntryTypeCredit, Amount: decimal.NewFromInt(amount), Reference: "seed",
		})
		require.NoError(t, err)
	}
	return userID
}

func purchase(userID uuid.UUID, total int64) *models.PurchaseTransaction {
	return &models.PurchaseTransaction{
		ID:                uuid.New(),
		UserID:            userID,
		Type:              models.ServiceTypeAirtime,
		Provider:          "mtn",
		Recipient:         "08031234567",
		Amount:            decimal.NewFromInt(total),
		TotalAmount:       decimal.NewFromInt(total),
		ExternalReference: uuid.NewString(),
	}
}

func TestStore_CreateWalletIsIdempotent(t *testing.T) {
	s := New()
	userID := uuid.New()

	first, err := s.CreateWallet(context.Background(), userID)
	require.NoError(t, err)
	second, err := s.CreateWallet(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestStore_DebitNeverGoesNegative(t *testing.T) {
	s := New()
	userID := fundedWallet(t, s, 100)

	_, err := s.ApplyEntry(context.Background(), models.LedgerEntry{
		UserID: userID, Type: models.EntryTypeDebit, Amount: decimal.NewFromInt(101), Reference: "x",
	})
	require.ErrorIs(t, err, repository.ErrInsufficientFunds)

	w, err := s.GetWalletByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "100", w.Balance.String())
}

func TestStore_ResolveRefundsOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := fundedWallet(t, s, 1000)

	p, err := s.CreateWithDebit(ctx, purchase(userID, 970))
	require.NoError(t, err)

	refund := &models.Refund{Amount: p.TotalAmount, Reference: "WEBHOOK_REFUND_" + p.ExternalReference}
	_, credit, err := s.Resolve(ctx, p.ID, models.StatusUpdate{Status: models.StatusReversed}, refund)
	require.NoError(t, err)
	require.NotNil(t, credit)

	_, credit, err = s.Resolve(ctx, p.ID, models.StatusUpdate{Status: models.StatusReversed}, refund)
	require.ErrorIs(t, err, repository.ErrAlreadyFinalized)
	assert.Nil(t, credit)

	w, err := s.GetWalletByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "1000", w.Balance.String())

	entries, err := s.ListEntries(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestStore_TerminalStatusIsImmutable(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := fundedWallet(t, s, 500)

	p, err := s.CreateWithDebit(ctx, purchase(userID, 200))
	require.NoError(t, err)

	_, _, err = s.Resolve(ctx, p.ID, models.StatusUpdate{Status: models.StatusSuccess, PurchasedCode: "PIN-1"}, nil)
	require.NoError(t, err)

	_, _, err = s.Resolve(ctx, p.ID, models.StatusUpdate{Status: models.StatusFailed}, &models.Refund{
		Amount: p.TotalAmount, Reference: "REFUND_" + p.ExternalReference,
	})
	require.ErrorIs(t, err, repository.ErrAlreadyFinalized)

	got, err := s.GetByExternalReference(ctx, p.ExternalReference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, got.Status)
	assert.Equal(t, "PIN-1", got.PurchasedCode)
}

func TestStore_DuplicateIdempotencyKey(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := fundedWallet(t, s, 500)

	first := purchase(userID, 100)
	first.IdempotencyKey = "k1"
	_, err := s.CreateWithDebit(ctx, first)
	require.NoError(t, err)

	second := purchase(userID, 100)
	second.IdempotencyKey = "k1"
	_, err = s.CreateWithDebit(ctx, second)
	require.ErrorIs(t, err, repository.ErrDuplicateIdempotencyKey)

	got, err := s.GetByIdempotencyKey(ctx, userID, "k1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	w, _ := s.GetWalletByUserID(ctx, userID)
	assert.Equal(t, "400", w.Balance.String())
}

func TestStore_ConcurrentDebitsConserveBalance(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := fundedWallet(t, s, 1000)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateWithDebit(ctx, purchase(userID, 100)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	w, err := s.GetWalletByUserID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
}

func TestStore_ListStalePending(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return now })
	ctx := context.Background()
	userID := fundedWallet(t, s, 1000)

	old, err := s.CreateWithDebit(ctx, purchase(userID, 100))
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = s.CreateWithDebit(ctx, purchase(userID, 100))
	require.NoError(t, err)

	stale, err := s.ListStalePending(ctx, now.Add(-10*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.ID, stale[0].ID)
}

func TestStore_GatewayCompletionCreditsOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := fundedWallet(t, s, 0)

	require.NoError(t, s.CreateGatewayTransaction(ctx, &models.PaymentGatewayTransaction{
		ID: uuid.New(), UserID: userID, Reference: "FND_1", Amount: decimal.NewFromInt(5000),
		Status: models.GatewayStatusPending,
	}))

	_, credit, err := s.CompleteWithCredit(ctx, "FND_1", []byte(`{"event":"charge.success"}`), "wallet funding")
	require.NoError(t, err)
	require.NotNil(t, credit)

	_, _, err = s.CompleteWithCredit(ctx, "FND_1", nil, "wallet funding")
	require.ErrorIs(t, err, repository.ErrAlreadyFinalized)

	w, _ := s.GetWalletByUserID(ctx, userID)
	assert.Equal(t, "5000", w.Balance.String())

	_, err = s.MarkGatewayFailed(ctx, "FND_1", nil)
	require.ErrorIs(t, err, repository.ErrAlreadyFinalized)
}

func TestStore_SyncPlansPrunes(t *testing.T) {
	s := New()
	ctx := context.Background()
	provider := &models.ServiceProvider{Name: "MTN Data", Type: models.ServiceTypeData, Code: "mtn-data",
		IsEnabled: true, Status: models.ProviderStatusActive}
	require.NoError(t, s.CreateProvider(ctx, provider))

	a := models.Variation{Code: "a", Name: "A", Amount: decimal.NewFromInt(100)}
	b := models.Variation{Code: "b", Name: "B", Amount: decimal.NewFromInt(200)}

	res, err := s.SyncPlans(ctx, provider.ID, []models.Variation{a, b})
	require.NoError(t, err)
	assert.Equal(t, models.SyncResult{Created: 2}, res)

	res, err = s.SyncPlans(ctx, provider.ID, []models.Variation{a})
	require.NoError(t, err)
	assert.Equal(t, models.SyncResult{Updated: 1, Deactivated: 1}, res)

	active, err := s.ListPlans(ctx, provider.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].Code)

	res, err = s.SyncPlans(ctx, provider.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SyncResult{Deactivated: 1}, res)

	all, err := s.ListPlans(ctx, provider.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.SyncPlans(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, repository.ErrProviderNotFound)
}
