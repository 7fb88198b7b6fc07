package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"vtu-service/internal/models"

	"github.com/google/uuid"
)

const transactionColumns = `id, user_id, type, provider, variation_code, biller_code, recipient,
	amount, user_discount, total_amount, status, external_reference, vtpass_reference,
	purchased_code, description, wallet_transaction_id, idempotency_key, created_at, updated_at`

type TransactionRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewTransactionRepository(db *sql.DB, log *slog.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:  db,
		log: log,
	}
}

// CreateWithDebit debits the owner's wallet by TotalAmount, writes the debit
// ledger row and inserts the purchase as pending, all in one database
// transaction. A purchase whose net payable is zero is recorded without a
// ledger row.
func (r *TransactionRepository) CreateWithDebit(ctx context.Context, p *models.PurchaseTransaction) (*models.PurchaseTransaction, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	created := *p
	created.Status = models.StatusPending
	created.CreatedAt = now
	created.UpdatedAt = now

	if created.TotalAmount.IsPositive() {
		wt, err := applyEntry(ctx, tx, models.LedgerEntry{
			UserID:      created.UserID,
			Type:        models.EntryTypeDebit,
			Amount:      created.TotalAmount,
			Reference:   created.ExternalReference,
			Description: created.Description,
		}, now)
		if err != nil {
			return nil, err
		}
		created.WalletTransactionID = &wt.ID
	}

	query := `INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = tx.ExecContext(ctx, query,
		created.ID, created.UserID, created.Type, created.Provider, created.VariationCode,
		created.BillerCode, created.Recipient, created.Amount, created.UserDiscount,
		created.TotalAmount, created.Status, created.ExternalReference, created.VTPassReference,
		created.PurchasedCode, created.Description, nullableUUID(created.WalletTransactionID),
		nullableString(created.IdempotencyKey), created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *TransactionRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*models.PurchaseTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, id))
}

func (r *TransactionRepository) GetByExternalReference(ctx context.Context, ref string) (*models.PurchaseTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE external_reference = $1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, ref))
}

func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.PurchaseTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND idempotency_key = $2`
	return scanTransaction(r.db.QueryRowContext(ctx, query, userID, key))
}

// Resolve applies update to a purchase that is still pending. When refund is
// non-nil the owner's wallet is credited inside the same database transaction,
// so a purchase can be refunded at most once. A purchase that has already left
// pending yields ErrAlreadyFinalized and nothing is written.
func (r *TransactionRepository) Resolve(ctx context.Context, id uuid.UUID, update models.StatusUpdate,
	refund *models.Refund) (*models.PurchaseTransaction, *models.WalletTransaction, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query := `UPDATE transactions SET
		status = $2,
		vtpass_reference = COALESCE(NULLIF($3, ''), vtpass_reference),
		purchased_code = COALESCE(NULLIF($4, ''), purchased_code),
		description = COALESCE(NULLIF($5, ''), description),
		updated_at = $6
	WHERE id = $1 AND status = 'pending'
	RETURNING ` + transactionColumns

	updated, err := scanTransaction(tx.QueryRowContext(ctx, query,
		id, update.Status, update.VTPassReference, update.PurchasedCode, update.Description, now,
	))
	if errors.Is(err, ErrTransactionNotFound) {
		var status string
		lookup := `SELECT status FROM transactions WHERE id = $1`
		if err := tx.QueryRowContext(ctx, lookup, id).Scan(&status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, ErrTransactionNotFound
			}
			return nil, nil, err
		}
		return nil, nil, ErrAlreadyFinalized
	}
	if err != nil {
		return nil, nil, mapError(err)
	}

	var credit *models.WalletTransaction
	if refund != nil && refund.Amount.IsPositive() {
		credit, err = applyEntry(ctx, tx, models.LedgerEntry{
			UserID:      updated.UserID,
			Type:        models.EntryTypeCredit,
			Amount:      refund.Amount,
			Reference:   refund.Reference,
			Description: refund.Description,
		}, now)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, mapError(err)
	}
	return updated, credit, nil
}

// ListStalePending returns pending purchases created before olderThan, oldest
// first, for the reconciliation sweep.
func (r *TransactionRepository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.PurchaseTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	WHERE status = 'pending' AND created_at < $1
	ORDER BY created_at
	LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PurchaseTransaction
	for rows.Next() {
		p, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanTransaction(row rowScanner) (*models.PurchaseTransaction, error) {
	var (
		p        models.PurchaseTransaction
		walletTx uuid.NullUUID
		key      sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Type, &p.Provider, &p.VariationCode, &p.BillerCode, &p.Recipient,
		&p.Amount, &p.UserDiscount, &p.TotalAmount, &p.Status, &p.ExternalReference, &p.VTPassReference,
		&p.PurchasedCode, &p.Description, &walletTx, &key, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if walletTx.Valid {
		p.WalletTransactionID = &walletTx.UUID
	}
	p.IdempotencyKey = key.String
	return &p, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
