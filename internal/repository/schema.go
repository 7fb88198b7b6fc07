package repository

import (
	"context"
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS wallets (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE,
		balance NUMERIC(18,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		version INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id UUID PRIMARY KEY,
		wallet_id UUID NOT NULL REFERENCES wallets(id),
		user_id UUID NOT NULL,
		type VARCHAR(10) NOT NULL CHECK (type IN ('credit', 'debit')),
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		balance_before NUMERIC(18,2) NOT NULL,
		balance_after NUMERIC(18,2) NOT NULL,
		reference VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		gateway_reference VARCHAR(100),
		gateway_response JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS wallet_transactions_wallet_idx ON wallet_transactions (wallet_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		type VARCHAR(20) NOT NULL,
		provider VARCHAR(60) NOT NULL,
		variation_code VARCHAR(100) NOT NULL DEFAULT '',
		biller_code VARCHAR(100) NOT NULL DEFAULT '',
		recipient VARCHAR(40) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		user_discount NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(18,2) NOT NULL,
		status VARCHAR(10) NOT NULL DEFAULT 'pending',
		external_reference VARCHAR(64) NOT NULL UNIQUE,
		vtpass_reference VARCHAR(64) NOT NULL DEFAULT '',
		purchased_code TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		wallet_transaction_id UUID REFERENCES wallet_transactions(id),
		idempotency_key VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT transactions_user_idempotency_key UNIQUE (user_id, idempotency_key)
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_pending_idx ON transactions (created_at) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS payment_gateway_transactions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		reference VARCHAR(100) NOT NULL UNIQUE,
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		status VARCHAR(10) NOT NULL DEFAULT 'pending',
		wallet_transaction_id UUID REFERENCES wallet_transactions(id),
		authorization_url TEXT NOT NULL DEFAULT '',
		gateway_response JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS service_providers (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(20) NOT NULL,
		code VARCHAR(60) NOT NULL,
		commission_rate NUMERIC(6,3) NOT NULL DEFAULT 0,
		commission_type VARCHAR(20) NOT NULL DEFAULT 'percentage',
		flat_fee_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (type, code)
	)`,
	`CREATE TABLE IF NOT EXISTS service_plans (
		id UUID PRIMARY KEY,
		provider_id UUID NOT NULL REFERENCES service_providers(id),
		name VARCHAR(255) NOT NULL,
		code VARCHAR(100) NOT NULL,
		amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		validity VARCHAR(60) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		status VARCHAR(10) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (provider_id, code)
	)`,
}

// CreateTablesIfNotExists bootstraps the schema for a fresh database.
func CreateTablesIfNotExists(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
