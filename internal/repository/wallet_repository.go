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

const walletColumns = `id, user_id, balance, created_at, updated_at, version`

const walletTransactionColumns = `id, wallet_id, user_id, type, amount, balance_before, balance_after,
	reference, description, gateway_reference, gateway_response, created_at`

type WalletRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewWalletRepository(db *sql.DB, log *slog.Logger) *WalletRepository {
	return &WalletRepository{
		db:  db,
		log: log,
	}
}

// CreateWallet opens the user's wallet. Calling it again for the same user
// returns the existing wallet.
func (r *WalletRepository) CreateWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	now := time.Now().UTC()
	query := `INSERT INTO wallets (id, user_id, balance, created_at, updated_at, version)
				 VALUES ($1, $2, 0, $3, $4, 1)
				 ON CONFLICT (user_id) DO NOTHING
				 RETURNING ` + walletColumns

	wallet, err := scanWallet(r.db.QueryRowContext(ctx, query, uuid.New(), userID, now, now))
	if errors.Is(err, ErrWalletNotFound) {
		return r.GetWalletByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *WalletRepository) GetWalletByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	return scanWallet(r.db.QueryRowContext(ctx, query, userID))
}

// ApplyEntry posts a single credit or debit and its ledger row atomically.
func (r *WalletRepository) ApplyEntry(ctx context.Context, entry models.LedgerEntry) (*models.WalletTransaction, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	wt, err := applyEntry(ctx, tx, entry, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}

	r.log.Debug("ledger entry posted",
		slog.String("reference", wt.Reference),
		slog.String("type", string(wt.Type)),
		slog.String("amount", wt.Amount.String()),
	)
	return wt, nil
}

func (r *WalletRepository) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	query := `SELECT ` + walletTransactionColumns + ` FROM wallet_transactions
	WHERE user_id = $1
	ORDER BY created_at DESC, id
	LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.WalletTransaction
	for rows.Next() {
		wt, err := scanWalletTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *wt)
	}
	return entries, rows.Err()
}

// applyEntry locks the wallet row, moves the balance and writes the matching
// ledger row inside tx. Callers own commit and rollback.
func applyEntry(ctx context.Context, tx *sql.Tx, entry models.LedgerEntry, now time.Time) (*models.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !entry.Type.Valid() {
		return nil, ErrUnknownOperationType
	}

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`
	wallet, err := scanWallet(tx.QueryRowContext(ctx, query, entry.UserID))
	if err != nil {
		return nil, mapError(err)
	}

	if entry.Type == models.EntryTypeDebit && wallet.Balance.LessThan(entry.Amount) {
		return nil, &BalanceError{Required: entry.Amount, Available: wallet.Balance}
	}
	newBalance := entry.Type.Apply(wallet.Balance, entry.Amount)

	updateQuery := `UPDATE wallets SET balance = $1, updated_at = $2, version = version + 1
	WHERE id = $3 AND version = $4`

	res, err := tx.ExecContext(ctx, updateQuery, newBalance, now, wallet.ID, wallet.Version)
	if err != nil {
		return nil, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrConcurrentModification
	}

	wt := &models.WalletTransaction{
		ID:               uuid.New(),
		WalletID:         wallet.ID,
		UserID:           wallet.UserID,
		Type:             entry.Type,
		Amount:           entry.Amount,
		BalanceBefore:    wallet.Balance,
		BalanceAfter:     newBalance,
		Reference:        entry.Reference,
		Description:      entry.Description,
		GatewayReference: entry.GatewayReference,
		GatewayResponse:  entry.GatewayResponse,
		CreatedAt:        now,
	}

	insertQuery := `INSERT INTO wallet_transactions (` + walletTransactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = tx.ExecContext(ctx, insertQuery,
		wt.ID, wt.WalletID, wt.UserID, wt.Type, wt.Amount, wt.BalanceBefore, wt.BalanceAfter,
		wt.Reference, wt.Description, wt.GatewayReference, nullableJSON(wt.GatewayResponse), wt.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return wt, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
		&wallet.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return wallet, nil
}

func scanWalletTransaction(row rowScanner) (*models.WalletTransaction, error) {
	var (
		wt         models.WalletTransaction
		gatewayRef sql.NullString
		response   []byte
	)
	err := row.Scan(
		&wt.ID, &wt.WalletID, &wt.UserID, &wt.Type, &wt.Amount, &wt.BalanceBefore, &wt.BalanceAfter,
		&wt.Reference, &wt.Description, &gatewayRef, &response, &wt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if gatewayRef.Valid {
		wt.GatewayReference = &gatewayRef.String
	}
	if len(response) > 0 {
		wt.GatewayResponse = json.RawMessage(response)
	}
	return &wt, nil
}

// nullableJSON hands JSONB parameters to lib/pq as text; raw []byte would be
// encoded as bytea.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
