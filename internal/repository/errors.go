package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound             = errors.New("wallet not found")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrConcurrentModification     = errors.New("concurrent modification detected")
	ErrUnknownOperationType       = errors.New("unknown operation type")
	ErrInvalidAmount              = errors.New("amount must be positive")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrAlreadyFinalized           = errors.New("transaction already finalized")
	ErrGatewayTransactionNotFound = errors.New("gateway transaction not found")
	ErrProviderNotFound           = errors.New("service provider not found")
	ErrPlanNotFound               = errors.New("service plan not found")
	ErrDuplicateIdempotencyKey    = errors.New("duplicate idempotency key")
	ErrDuplicateReference         = errors.New("duplicate reference")
)

// BalanceError reports a debit that would take a wallet below zero.
type BalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

func (e *BalanceError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"

	idempotencyKeyConstraint = "transactions_user_idempotency_key"
)

// mapError converts driver errors into the package sentinels callers match on.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqSerializationFailure, pqDeadlockDetected:
		return fmt.Errorf("%w: %s", ErrConcurrentModification, pqErr.Message)
	case pqUniqueViolation:
		if pqErr.Constraint == idempotencyKeyConstraint {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("%w: %s", ErrDuplicateReference, pqErr.Constraint)
	}
	return err
}
