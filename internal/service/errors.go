package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vtu-service/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrProviderNotFound      = errors.New("service provider not found")
	ErrUnknownReference      = errors.New("unknown reference")
	ErrDuplicateWebhookEvent = errors.New("duplicate webhook event")
	ErrMalformedPayload      = errors.New("malformed payload")
	ErrOperationFailed       = errors.New("operation failed")
)

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type InsufficientBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// ProviderCallError means the biller or gateway rejected or failed a call.
// Err carries the detail for logs and must not be shown to users.
type ProviderCallError struct {
	Reference string
	Err       error
}

func (e *ProviderCallError) Error() string {
	return fmt.Sprintf("provider call for %s failed: %v", e.Reference, e.Err)
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}

type SignatureVerificationError struct{}

func (e *SignatureVerificationError) Error() string {
	return "webhook signature verification failed"
}

func balanceError(err error) error {
	var be *repository.BalanceError
	if errors.As(err, &be) {
		return &InsufficientBalanceError{Required: be.Required, Available: be.Available}
	}
	return nil
}

const (
	maxRetries     = 5
	initialBackoff = 10 * time.Millisecond
)

// withRetry reruns fn while it fails on a lost optimistic lock or a
// serialization conflict, backing off exponentially between attempts.
func withRetry[T any](ctx context.Context, log *slog.Logger, fn func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	backoff := initialBackoff

	for i := 0; i < maxRetries; i++ {
		res, err := fn()
		if err == nil || !errors.Is(err, repository.ErrConcurrentModification) {
			return res, err
		}

		lastErr = err
		log.Debug("retrying after concurrent modification", slog.Int("attempt", i+1))

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", ErrOperationFailed, maxRetries, lastErr)
}
