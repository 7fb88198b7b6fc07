package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"vtu-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gatewayRowColumns = []string{"id", "user_id", "reference", "amount", "status", "wallet_transaction_id",
	"authorization_url", "gateway_response", "created_at", "updated_at"}

func gatewayRow(id, userID uuid.UUID, reference, amount, status string, walletTx any) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(gatewayRowColumns).
		AddRow(id, userID, reference, amount, status, walletTx, "https://checkout.example/abc", nil, now, now)
}

func TestGatewayRepository_CompleteWithCredit_PostsCredit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGatewayRepository(db, log)
	id, userID, walletID := uuid.New(), uuid.New(), uuid.New()
	response := json.RawMessage(`{"event":"charge.success"}`)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM payment_gateway_transactions WHERE reference = \$1 FOR UPDATE`).
		WithArgs("FND_1").
		WillReturnRows(gatewayRow(id, userID, "FND_1", "5000.00", "pending", nil))
	mock.ExpectQuery(`SELECT .* FROM wallets WHERE user_id = \$1 FOR UPDATE`).
		WithArgs(userID).
		WillReturnRows(walletRow(walletID, userID, "0.00", 1))
	mock.ExpectExec(`UPDATE wallets SET balance`).
		WithArgs("5000", sqlmock.AnyArg(), walletID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).
		WithArgs(sqlmock.AnyArg(), walletID, userID, "credit", "5000", "0", "5000",
			"FND_1", "wallet funding", "FND_1", string(response), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payment_gateway_transactions\s+SET status = 'success'`).
		WithArgs(id, sqlmock.AnyArg(), string(response), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	g, credit, err := repo.CompleteWithCredit(context.Background(), "FND_1", response, "wallet funding")

	require.NoError(t, err)
	assert.Equal(t, models.GatewayStatusSuccess, g.Status)
	require.NotNil(t, credit)
	assert.Equal(t, credit.ID, *g.WalletTransactionID)
	assert.Equal(t, "5000", credit.BalanceAfter.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayRepository_CompleteWithCredit_AlreadySuccessful(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGatewayRepository(db, log)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FOR UPDATE`).
		WithArgs("FND_1").
		WillReturnRows(gatewayRow(uuid.New(), uuid.New(), "FND_1", "5000.00", "success", uuid.New()))
	mock.ExpectRollback()

	_, credit, err := repo.CompleteWithCredit(context.Background(), "FND_1", nil, "wallet funding")

	require.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Nil(t, credit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayRepository_CompleteWithCredit_LinkedLedgerRowIsEnrichedOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGatewayRepository(db, log)
	id, walletTx := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FOR UPDATE`).
		WithArgs("FND_2").
		WillReturnRows(gatewayRow(id, uuid.New(), "FND_2", "1000.00", "failed", walletTx))
	mock.ExpectExec(`UPDATE wallet_transactions SET gateway_reference`).
		WithArgs(walletTx, "FND_2", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payment_gateway_transactions`).
		WithArgs(id, walletTx, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	g, credit, err := repo.CompleteWithCredit(context.Background(), "FND_2", nil, "wallet funding")

	require.NoError(t, err)
	assert.Nil(t, credit)
	assert.Equal(t, models.GatewayStatusSuccess, g.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayRepository_CompleteWithCredit_UnknownReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGatewayRepository(db, log)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FOR UPDATE`).
		WithArgs("FND_404").
		WillReturnRows(sqlmock.NewRows(gatewayRowColumns))
	mock.ExpectRollback()

	_, _, err = repo.CompleteWithCredit(context.Background(), "FND_404", nil, "")

	require.ErrorIs(t, err, ErrGatewayTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayRepository_MarkGatewayFailed_AlreadyFinal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGatewayRepository(db, log)

	mock.ExpectQuery(`UPDATE payment_gateway_transactions\s+SET status = 'failed'`).
		WithArgs("FND_3", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(gatewayRowColumns))
	mock.ExpectQuery(`SELECT .* FROM payment_gateway_transactions WHERE reference = \$1$`).
		WithArgs("FND_3").
		WillReturnRows(gatewayRow(uuid.New(), uuid.New(), "FND_3", "200.00", "success", uuid.New()))

	_, err = repo.MarkGatewayFailed(context.Background(), "FND_3", nil)

	require.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGatewayRepository_SetAuthorization_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGatewayRepository(db, log)

	mock.ExpectExec(`UPDATE payment_gateway_transactions\s+SET authorization_url`).
		WithArgs("FND_9", "https://checkout.example/x", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetAuthorization(context.Background(), "FND_9", "https://checkout.example/x", nil)

	require.ErrorIs(t, err, ErrGatewayTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
