package repository

import (
	"context"
	"testing"
	"time"

	"vtu-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionRowColumns = []string{"id", "user_id", "type", "provider", "variation_code", "biller_code",
	"recipient", "amount", "user_discount", "total_amount", "status", "external_reference", "vtpass_reference",
	"purchased_code", "description", "wallet_transaction_id", "idempotency_key", "created_at", "updated_at"}

func purchaseRow(p models.PurchaseTransaction) *sqlmock.Rows {
	var walletTx any
	if p.WalletTransactionID != nil {
		walletTx = *p.WalletTransactionID
	}
	return sqlmock.NewRows(transactionRowColumns).AddRow(
		p.ID, p.UserID, string(p.Type), p.Provider, p.VariationCode, p.BillerCode, p.Recipient,
		p.Amount, p.UserDiscount, p.TotalAmount, string(p.Status), p.ExternalReference, p.VTPassReference,
		p.PurchasedCode, p.Description, walletTx, nil, p.CreatedAt, p.UpdatedAt,
	)
}

func newPurchase() models.PurchaseTransaction {
	now := time.Now().UTC()
	return models.PurchaseTransaction{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Type:              models.ServiceTypeAirtime,
		Provider:          "mtn",
		Recipient:         "08031234567",
		Amount:            decimal.NewFromInt(1000),
		UserDiscount:      decimal.NewFromInt(30),
		TotalAmount:       decimal.NewFromInt(970),
		Status:            models.StatusPending,
		ExternalReference: "202610151230abcdefghijkl",
		Description:       "MTN airtime for 08031234567",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestTransactionRepository_CreateWithDebit_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	p := newPurchase()
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM wallets WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(p.UserID).
		WillReturnRows(walletRow(walletID, p.UserID, "5000.00", 2))
	mock.ExpectExec(`UPDATE wallets SET balance`).
		WithArgs("4030", sqlmock.AnyArg(), walletID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateWithDebit(context.Background(), &p)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	require.NotNil(t, created.WalletTransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_CreateWithDebit_InsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	p := newPurchase()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FOR UPDATE`).
		WithArgs(p.UserID).
		WillReturnRows(walletRow(uuid.New(), p.UserID, "500.00", 1))
	mock.ExpectRollback()

	created, err := repo.CreateWithDebit(context.Background(), &p)

	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_CreateWithDebit_ZeroTotalSkipsLedger(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	p := newPurchase()
	p.UserDiscount = p.Amount
	p.TotalAmount = decimal.Zero

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateWithDebit(context.Background(), &p)

	require.NoError(t, err)
	assert.Nil(t, created.WalletTransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_CreateWithDebit_DuplicateIdempotencyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	p := newPurchase()
	p.IdempotencyKey = "client-key-1"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FOR UPDATE`).
		WithArgs(p.UserID).
		WillReturnRows(walletRow(uuid.New(), p.UserID, "5000.00", 1))
	mock.ExpectExec(`UPDATE wallets SET balance`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "transactions_user_idempotency_key"})
	mock.ExpectRollback()

	_, err = repo.CreateWithDebit(context.Background(), &p)

	require.ErrorIs(t, err, ErrDuplicateIdempotencyKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Resolve_WithRefund(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	p := newPurchase()
	failed := p
	failed.Status = models.StatusFailed
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE transactions SET .* WHERE id = \$1 AND status = 'pending'`).
		WithArgs(p.ID, "failed", "", "", "biller declined", sqlmock.AnyArg()).
		WillReturnRows(purchaseRow(failed))
	mock.ExpectQuery(`SELECT .* FROM wallets WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(p.UserID).
		WillReturnRows(walletRow(walletID, p.UserID, "4030.00", 3))
	mock.ExpectExec(`UPDATE wallets SET balance`).
		WithArgs("5000", sqlmock.AnyArg(), walletID, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).
		WithArgs(sqlmock.AnyArg(), walletID, p.UserID, "credit", "970", "4030", "5000",
			"REFUND_"+p.ExternalReference, "refund", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, credit, err := repo.Resolve(context.Background(), p.ID,
		models.StatusUpdate{Status: models.StatusFailed, Description: "biller declined"},
		&models.Refund{Amount: p.TotalAmount, Reference: "REFUND_" + p.ExternalReference, Description: "refund"},
	)

	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, updated.Status)
	require.NotNil(t, credit)
	assert.Equal(t, "5000", credit.BalanceAfter.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Resolve_AlreadyFinalized(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE transactions SET`).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns))
	mock.ExpectQuery(`SELECT status FROM transactions WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("success"))
	mock.ExpectRollback()

	updated, credit, err := repo.Resolve(context.Background(), id,
		models.StatusUpdate{Status: models.StatusReversed},
		&models.Refund{Amount: decimal.NewFromInt(970), Reference: "WEBHOOK_REFUND_X"},
	)

	require.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Nil(t, updated)
	assert.Nil(t, credit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Resolve_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE transactions SET`).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns))
	mock.ExpectQuery(`SELECT status FROM transactions`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	_, _, err = repo.Resolve(context.Background(), id, models.StatusUpdate{Status: models.StatusSuccess}, nil)

	require.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Resolve_SuccessWithoutRefund(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	p := newPurchase()
	done := p
	done.Status = models.StatusSuccess
	done.PurchasedCode = "Token : 1234-5678"

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE transactions SET`).
		WithArgs(p.ID, "success", "1618486616557", "Token : 1234-5678", "", sqlmock.AnyArg()).
		WillReturnRows(purchaseRow(done))
	mock.ExpectCommit()

	updated, credit, err := repo.Resolve(context.Background(), p.ID, models.StatusUpdate{
		Status:          models.StatusSuccess,
		VTPassReference: "1618486616557",
		PurchasedCode:   "Token : 1234-5678",
	}, nil)

	require.NoError(t, err)
	assert.Nil(t, credit)
	assert.Equal(t, "Token : 1234-5678", updated.PurchasedCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_GetByExternalReference_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)

	mock.ExpectQuery(`SELECT .* FROM transactions WHERE external_reference = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(transactionRowColumns))

	_, err = repo.GetByExternalReference(context.Background(), "missing")

	require.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_ListStalePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db, log)
	p := newPurchase()
	walletTx := uuid.New()
	p.WalletTransactionID = &walletTx
	cutoff := time.Now().UTC().Add(-10 * time.Minute)

	mock.ExpectQuery(`SELECT .* FROM transactions\s+WHERE status = 'pending' AND created_at < \$1`).
		WithArgs(cutoff, 50).
		WillReturnRows(purchaseRow(p))

	stale, err := repo.ListStalePending(context.Background(), cutoff, 50)

	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, p.ExternalReference, stale[0].ExternalReference)
	require.NotNil(t, stale[0].WalletTransactionID)
	assert.Equal(t, walletTx, *stale[0].WalletTransactionID)
	assert.True(t, decimal.NewFromInt(970).Equal(stale[0].TotalAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}
