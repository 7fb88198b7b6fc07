package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"vtu-service/internal/models"

	"github.com/google/uuid"
)

const gatewayColumns = `id, user_id, reference, amount, status, wallet_transaction_id,
	authorization_url, gateway_response, created_at, updated_at`

type GatewayRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewGatewayRepository(db *sql.DB, log *slog.Logger) *GatewayRepository {
	return &GatewayRepository{
		db:  db,
		log: log,
	}
}

func (r *GatewayRepository) CreateGatewayTransaction(ctx context.Context, g *models.PaymentGatewayTransaction) error {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	query := `INSERT INTO payment_gateway_transactions (` + gatewayColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.UserID, g.Reference, g.Amount, g.Status, nullableUUID(g.WalletTransactionID),
		g.AuthorizationURL, nullableJSON(g.GatewayResponse), g.CreatedAt, g.UpdatedAt,
	)
	return mapError(err)
}

func (r *GatewayRepository) GetGatewayTransaction(ctx context.Context, reference string) (*models.PaymentGatewayTransaction, error) {
	query := `SELECT ` + gatewayColumns + ` FROM payment_gateway_transactions WHERE reference = $1`
	return scanGatewayTransaction(r.db.QueryRowContext(ctx, query, reference))
}

func (r *GatewayRepository) SetAuthorization(ctx context.Context, reference, authorizationURL string, response json.RawMessage) error {
	query := `UPDATE payment_gateway_transactions
	SET authorization_url = $2, gateway_response = $3, updated_at = $4
	WHERE reference = $1`

	res, err := r.db.ExecContext(ctx, query, reference, authorizationURL, nullableJSON(response), time.Now().UTC())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrGatewayTransactionNotFound
	}
	return nil
}

// MarkGatewayFailed fails a pending funding attempt. Nothing is credited.
func (r *GatewayRepository) MarkGatewayFailed(ctx context.Context, reference string, response json.RawMessage) (*models.PaymentGatewayTransaction, error) {
	query := `UPDATE payment_gateway_transactions
	SET status = 'failed', gateway_response = COALESCE($2::jsonb, gateway_response), updated_at = $3
	WHERE reference = $1 AND status = 'pending'
	RETURNING ` + gatewayColumns

	g, err := scanGatewayTransaction(r.db.QueryRowContext(ctx, query, reference, nullableJSON(response), time.Now().UTC()))
	if errors.Is(err, ErrGatewayTransactionNotFound) {
		if _, lookupErr := r.GetGatewayTransaction(ctx, reference); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrAlreadyFinalized
	}
	return g, err
}

// CompleteWithCredit marks the funding attempt successful and credits the
// recorded amount to the user's wallet in one database transaction. A
// reference that is already successful yields ErrAlreadyFinalized. When the
// attempt already links a ledger row, the credit was posted earlier and the
// row only receives the gateway fields.
func (r *GatewayRepository) CompleteWithCredit(ctx context.Context, reference string, response json.RawMessage,
	description string) (*models.PaymentGatewayTransaction, *models.WalletTransaction, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + gatewayColumns + ` FROM payment_gateway_transactions WHERE reference = $1 FOR UPDATE`
	g, err := scanGatewayTransaction(tx.QueryRowContext(ctx, query, reference))
	if err != nil {
		return nil, nil, err
	}
	if g.Status == models.GatewayStatusSuccess {
		return nil, nil, ErrAlreadyFinalized
	}

	now := time.Now().UTC()
	var credit *models.WalletTransaction
	if g.WalletTransactionID != nil {
		enrich := `UPDATE wallet_transactions SET gateway_reference = $2, gateway_response = $3 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, enrich, *g.WalletTransactionID, reference, nullableJSON(response)); err != nil {
			return nil, nil, err
		}
	} else {
		ref := reference
		credit, err = applyEntry(ctx, tx, models.LedgerEntry{
			UserID:           g.UserID,
			Type:             models.EntryTypeCredit,
			Amount:           g.Amount,
			Reference:        reference,
			Description:      description,
			GatewayReference: &ref,
			GatewayResponse:  response,
		}, now)
		if err != nil {
			return nil, nil, err
		}
		g.WalletTransactionID = &credit.ID
	}

	update := `UPDATE payment_gateway_transactions
	SET status = 'success', wallet_transaction_id = $2, gateway_response = COALESCE($3::jsonb, gateway_response), updated_at = $4
	WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, g.ID, *g.WalletTransactionID, nullableJSON(response), now); err != nil {
		return nil, nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, mapError(err)
	}

	g.Status = models.GatewayStatusSuccess
	g.UpdatedAt = now
	if len(response) > 0 {
		g.GatewayResponse = response
	}
	return g, credit, nil
}

func scanGatewayTransaction(row rowScanner) (*models.PaymentGatewayTransaction, error) {
	var (
		g        models.PaymentGatewayTransaction
		walletTx uuid.NullUUID
		response []byte
	)
	err := row.Scan(
		&g.ID, &g.UserID, &g.Reference, &g.Amount, &g.Status, &walletTx,
		&g.AuthorizationURL, &response, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGatewayTransactionNotFound
		}
		return nil, err
	}
	if walletTx.Valid {
		g.WalletTransactionID = &walletTx.UUID
	}
	if len(response) > 0 {
		g.GatewayResponse = json.RawMessage(response)
	}
	return &g, nil
}
