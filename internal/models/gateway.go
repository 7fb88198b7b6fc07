package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GatewayStatus string

const (
	GatewayStatusPending GatewayStatus = "pending"
	GatewayStatusSuccess GatewayStatus = "success"
	GatewayStatusFailed  GatewayStatus = "failed"
)

// PaymentGatewayTransaction tracks one wallet funding attempt. Reference is
// the gateway's idempotency key.
type PaymentGatewayTransaction struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	Reference           string          `json:"reference"`
	Amount              decimal.Decimal `json:"amount"`
	Status              GatewayStatus   `json:"status"`
	WalletTransactionID *uuid.UUID      `json:"wallet_transaction_id,omitempty"`
	AuthorizationURL    string          `json:"authorization_url,omitempty"`
	GatewayResponse     json.RawMessage `json:"gateway_response,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type FundingRequest struct {
	Email  string          `json:"email"`
	Amount decimal.Decimal `json:"amount"`
}
