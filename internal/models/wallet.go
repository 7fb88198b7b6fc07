package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeCredit EntryType = "credit"
	EntryTypeDebit  EntryType = "debit"
)

type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
}

// WalletTransaction is an immutable ledger row. Only the gateway fields may be
// attached after the row is written.
type WalletTransaction struct {
	ID               uuid.UUID       `json:"id"`
	WalletID         uuid.UUID       `json:"wallet_id"`
	UserID           uuid.UUID       `json:"user_id"`
	Type             EntryType       `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	BalanceBefore    decimal.Decimal `json:"balance_before"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	Reference        string          `json:"reference"`
	Description      string          `json:"description"`
	GatewayReference *string         `json:"gateway_reference,omitempty"`
	GatewayResponse  json.RawMessage `json:"gateway_response,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LedgerEntry is a request to move money in or out of a user's wallet.
type LedgerEntry struct {
	UserID           uuid.UUID
	Type             EntryType
	Amount           decimal.Decimal
	Reference        string
	Description      string
	GatewayReference *string
	GatewayResponse  json.RawMessage
}

// Apply returns the balance that results from posting an entry of type t.
func (t EntryType) Apply(balance, amount decimal.Decimal) decimal.Decimal {
	if t == EntryTypeDebit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}

func (t EntryType) Valid() bool {
	return t == EntryTypeCredit || t == EntryTypeDebit
}
