package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceTypeAirtime     ServiceType = "airtime"
	ServiceTypeData        ServiceType = "data"
	ServiceTypeTV          ServiceType = "tv"
	ServiceTypeElectricity ServiceType = "electricity"
	ServiceTypeEducation   ServiceType = "education"
	ServiceTypeInsurance   ServiceType = "insurance"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeAirtime, ServiceTypeData, ServiceTypeTV,
		ServiceTypeElectricity, ServiceTypeEducation, ServiceTypeInsurance:
		return true
	}
	return false
}

// AcceptsDynamicVariation reports whether providers of this type take
// variation codes that are not part of the synced catalog, such as
// prepaid/postpaid meters or insurance cover classes.
func (t ServiceType) AcceptsDynamicVariation() bool {
	return t == ServiceTypeElectricity || t == ServiceTypeInsurance
}

// RequiresBillerCode reports whether a purchase must name the meter,
// smartcard or profile being paid for.
func (t ServiceType) RequiresBillerCode() bool {
	return t == ServiceTypeTV || t == ServiceTypeElectricity
}

type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusSuccess  TransactionStatus = "success"
	StatusFailed   TransactionStatus = "failed"
	StatusReversed TransactionStatus = "reversed"
)

func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusReversed
}

// Refundable reports whether moving a pending purchase into s returns the
// debited funds to the wallet.
func (s TransactionStatus) Refundable() bool {
	return s == StatusFailed || s == StatusReversed
}

type PurchaseTransaction struct {
	ID                  uuid.UUID         `json:"id"`
	UserID              uuid.UUID         `json:"user_id"`
	Type                ServiceType       `json:"type"`
	Provider            string            `json:"provider"`
	VariationCode       string            `json:"variation_code,omitempty"`
	BillerCode          string            `json:"biller_code,omitempty"`
	Recipient           string            `json:"recipient"`
	Amount              decimal.Decimal   `json:"amount"`
	UserDiscount        decimal.Decimal   `json:"user_discount"`
	TotalAmount         decimal.Decimal   `json:"total_amount"`
	Status              TransactionStatus `json:"status"`
	ExternalReference   string            `json:"external_reference"`
	VTPassReference     string            `json:"vtpass_reference,omitempty"`
	PurchasedCode       string            `json:"purchased_code,omitempty"`
	Description         string            `json:"description"`
	WalletTransactionID *uuid.UUID        `json:"wallet_transaction_id,omitempty"`
	IdempotencyKey      string            `json:"-"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

type PurchaseRequest struct {
	Type           ServiceType     `json:"type"`
	Provider       string          `json:"provider"`
	VariationCode  string          `json:"variation_code,omitempty"`
	BillerCode     string          `json:"biller_code,omitempty"`
	Recipient      string          `json:"recipient"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"-"`
}

// StatusUpdate moves a pending purchase forward. Empty strings leave the
// stored value untouched.
type StatusUpdate struct {
	Status          TransactionStatus
	VTPassReference string
	PurchasedCode   string
	Description     string
}

// Refund is credited to the owner's wallet in the same atomic write that
// finalizes the purchase.
type Refund struct {
	Amount      decimal.Decimal
	Reference   string
	Description string
}
