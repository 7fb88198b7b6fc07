package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vtu-service/internal/biller"
	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/shopspring/decimal"
)

// Refund reference prefixes, one per path that can finalize a purchase.
const (
	RefundPrefixPurchase  = "REFUND_"
	RefundPrefixWebhook   = "WEBHOOK_REFUND_"
	RefundPrefixReconcile = "RECONCILE_REFUND_"
)

// Resolver is the single place a pending purchase leaves pending. The status
// change and any refund are written together, conditional on the purchase
// still being pending, so a purchase is refunded at most once no matter how
// many paths race to finalize it.
type Resolver struct {
	repo TransactionRepository
	log  *slog.Logger
}

func NewResolver(repo TransactionRepository, log *slog.Logger) *Resolver {
	return &Resolver{
		repo: repo,
		log:  log,
	}
}

// ApplyOutcome moves p to the status the biller reported. Failed and
// reversed outcomes refund the owner under refundPrefix+<purchase id>. An
// outcome for a purchase that already left pending returns
// ErrDuplicateWebhookEvent and changes nothing.
func (r *Resolver) ApplyOutcome(ctx context.Context, p *models.PurchaseTransaction, out biller.Outcome,
	refundPrefix string) (*models.PurchaseTransaction, error) {
	status := out.Resolve()
	update := models.StatusUpdate{
		Status:          status,
		VTPassReference: out.TransactionID,
		PurchasedCode:   out.PurchasedCode,
		Description:     out.Description,
	}

	if status == models.StatusPending && update.VTPassReference == "" && update.PurchasedCode == "" {
		if p.Status != models.StatusPending {
			return nil, fmt.Errorf("%w: %s is already %s", ErrDuplicateWebhookEvent, p.ExternalReference, p.Status)
		}
		return p, nil
	}

	var refund *models.Refund
	if status.Refundable() {
		refund = &models.Refund{
			Amount:      refundAmount(p, out),
			Reference:   refundPrefix + p.ID.String(),
			Description: fmt.Sprintf("Refund for %s (%s)", p.ExternalReference, status),
		}
	}
	return r.resolve(ctx, p, update, refund)
}

// Fail marks p failed and refunds the full debit. It is used when the biller
// could not be reached or answered with an error before any outcome existed.
func (r *Resolver) Fail(ctx context.Context, p *models.PurchaseTransaction, reason, refundPrefix string) (*models.PurchaseTransaction, error) {
	update := models.StatusUpdate{Status: models.StatusFailed, Description: reason}
	refund := &models.Refund{
		Amount:      p.TotalAmount,
		Reference:   refundPrefix + p.ID.String(),
		Description: fmt.Sprintf("Refund for %s (failed)", p.ExternalReference),
	}
	return r.resolve(ctx, p, update, refund)
}

func (r *Resolver) resolve(ctx context.Context, p *models.PurchaseTransaction, update models.StatusUpdate,
	refund *models.Refund) (*models.PurchaseTransaction, error) {
	op := "service.ResolvePurchase"
	log := r.log.With(
		slog.String("op", op),
		slog.String("transaction_id", p.ID.String()),
		slog.String("external_reference", p.ExternalReference),
		slog.String("status", string(update.Status)),
	)

	type result struct {
		purchase *models.PurchaseTransaction
		credit   *models.WalletTransaction
	}
	res, err := withRetry(ctx, log, func() (result, error) {
		updated, credit, err := r.repo.Resolve(ctx, p.ID, update, refund)
		return result{updated, credit}, err
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyFinalized):
			log.Info("purchase already finalized", slog.Bool("duplicate", true))
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWebhookEvent, p.ExternalReference)
		case errors.Is(err, repository.ErrTransactionNotFound):
			return nil, fmt.Errorf("%w: %s", ErrUnknownReference, p.ExternalReference)
		}
		log.Error("failed to resolve purchase", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve purchase: %w", err)
	}

	if res.credit != nil {
		log.Info("purchase refunded",
			slog.String("reference", res.credit.Reference),
			slog.String("amount", res.credit.Amount.String()),
		)
	} else {
		log.Info("purchase resolved")
	}
	return res.purchase, nil
}

// refundAmount is the biller-reported amount when it is a sensible partial
// refund, and the full debited total otherwise.
func refundAmount(p *models.PurchaseTransaction, out biller.Outcome) decimal.Decimal {
	if out.HasAmount && out.Amount.IsPositive() && out.Amount.LessThanOrEqual(p.TotalAmount) {
		return out.Amount
	}
	return p.TotalAmount
}
