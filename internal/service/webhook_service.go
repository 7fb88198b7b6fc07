package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vtu-service/internal/gateway"
	"vtu-service/internal/lock"
	"vtu-service/internal/models"
	"vtu-service/internal/repository"
	"vtu-service/internal/webhook"
)

// WebhookService ingests biller and payment gateway callbacks. Once an event
// is well formed it is always acknowledged: processing failures are logged
// here instead of being returned, so the sender never retries into a storm.
type WebhookService struct {
	transactions  TransactionRepository
	gatewayTxs    GatewayRepository
	catalog       *CatalogService
	resolver      *Resolver
	locker        Locker
	gatewaySecret string
	log           *slog.Logger
}

func NewWebhookService(transactions TransactionRepository, gatewayTxs GatewayRepository, catalog *CatalogService,
	resolver *Resolver, locker Locker, gatewaySecret string, log *slog.Logger) *WebhookService {
	return &WebhookService{
		transactions:  transactions,
		gatewayTxs:    gatewayTxs,
		catalog:       catalog,
		resolver:      resolver,
		locker:        locker,
		gatewaySecret: gatewaySecret,
		log:           log,
	}
}

// HandleBillerWebhook returns an error only for a malformed envelope.
func (s *WebhookService) HandleBillerWebhook(ctx context.Context, body []byte) error {
	op := "service.HandleBillerWebhook"
	log := s.log.With(slog.String("op", op))

	ev, err := webhook.ParseBillerEvent(body)
	if err != nil {
		log.Warn("rejecting malformed biller webhook", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if err := s.processBillerEvent(ctx, ev); err != nil {
		s.logOutcome(log, err)
	}
	return nil
}

func (s *WebhookService) processBillerEvent(ctx context.Context, ev webhook.BillerEvent) error {
	switch e := ev.(type) {
	case webhook.TransactionUpdate:
		return s.applyTransactionUpdate(ctx, e)
	case webhook.VariationsUpdate:
		_, err := s.catalog.SyncVariations(ctx, e.ServiceID, e.Variations)
		return err
	case webhook.UnrecognizedBillerEvent:
		s.log.Info("ignoring biller webhook", slog.String("type", e.Type), slog.String("reason", e.Reason))
	}
	return nil
}

func (s *WebhookService) applyTransactionUpdate(ctx context.Context, e webhook.TransactionUpdate) error {
	ref := e.Outcome.RequestID
	log := s.log.With(slog.String("op", "service.ApplyTransactionUpdate"), slog.String("external_reference", ref))

	release := s.lockBestEffort(ctx, log, "txn:"+ref)
	defer release()

	p, err := s.transactions.GetByExternalReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return fmt.Errorf("%w: purchase %s", ErrUnknownReference, ref)
		}
		return fmt.Errorf("failed to load purchase %s: %w", ref, err)
	}
	if p.Status.IsTerminal() {
		return fmt.Errorf("%w: %s is already %s", ErrDuplicateWebhookEvent, ref, p.Status)
	}

	resolved, err := s.resolver.ApplyOutcome(ctx, p, e.Outcome, RefundPrefixWebhook)
	if err != nil {
		return err
	}
	log.Info("biller webhook applied",
		slog.String("code", e.Outcome.Code),
		slog.String("status", string(resolved.Status)),
	)
	return nil
}

// HandleGatewayWebhook authenticates body against signature before decoding
// it. It returns *SignatureVerificationError or ErrMalformedPayload; every
// other outcome is acknowledged.
func (s *WebhookService) HandleGatewayWebhook(ctx context.Context, body []byte, signature string) error {
	op := "service.HandleGatewayWebhook"
	log := s.log.With(slog.String("op", op))

	if !gateway.VerifySignature(body, signature, s.gatewaySecret) {
		log.Warn("gateway webhook signature mismatch")
		return &SignatureVerificationError{}
	}

	ev, err := webhook.ParseGatewayEvent(body)
	if err != nil {
		log.Warn("rejecting malformed gateway webhook", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if err := s.processGatewayEvent(ctx, ev); err != nil {
		s.logOutcome(log, err)
	}
	return nil
}

func (s *WebhookService) processGatewayEvent(ctx context.Context, ev webhook.GatewayEvent) error {
	switch e := ev.(type) {
	case webhook.ChargeSuccess:
		return s.completeFunding(ctx, e)
	case webhook.ChargeFailed:
		return s.failFunding(ctx, e)
	case webhook.TransferEvent:
		s.log.Info("transfer event received", slog.String("event", e.Event), slog.String("reference", e.Reference))
	case webhook.UnrecognizedGatewayEvent:
		s.log.Info("ignoring gateway webhook", slog.String("event", e.Event), slog.String("reason", e.Reason))
	}
	return nil
}

func (s *WebhookService) completeFunding(ctx context.Context, e webhook.ChargeSuccess) error {
	log := s.log.With(slog.String("op", "service.CompleteFunding"), slog.String("reference", e.Reference))

	release := s.lockBestEffort(ctx, log, "fund:"+e.Reference)
	defer release()

	type result struct {
		funding *models.PaymentGatewayTransaction
		credit  *models.WalletTransaction
	}
	res, err := withRetry(ctx, log, func() (result, error) {
		g, credit, err := s.gatewayTxs.CompleteWithCredit(ctx, e.Reference, e.Raw, "Wallet funding "+e.Reference)
		return result{g, credit}, err
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGatewayTransactionNotFound):
			return fmt.Errorf("%w: funding %s", ErrUnknownReference, e.Reference)
		case errors.Is(err, repository.ErrAlreadyFinalized):
			return fmt.Errorf("%w: funding %s already credited", ErrDuplicateWebhookEvent, e.Reference)
		}
		return fmt.Errorf("failed to complete funding %s: %w", e.Reference, err)
	}

	if e.Amount.IsPositive() && !e.Amount.Equal(res.funding.Amount) {
		log.Warn("gateway amount differs from recorded amount, credited recorded amount",
			slog.String("gateway_amount", e.Amount.String()),
			slog.String("recorded_amount", res.funding.Amount.String()),
		)
	}
	if res.credit != nil {
		log.Info("wallet funded",
			slog.String("user_id", res.funding.UserID.String()),
			slog.String("amount", res.credit.Amount.String()),
			slog.String("balance_after", res.credit.BalanceAfter.String()),
		)
	} else {
		log.Info("funding completed against existing ledger entry")
	}
	return nil
}

func (s *WebhookService) failFunding(ctx context.Context, e webhook.ChargeFailed) error {
	_, err := s.gatewayTxs.MarkGatewayFailed(ctx, e.Reference, e.Raw)
	switch {
	case err == nil:
		s.log.Info("funding failed", slog.String("reference", e.Reference))
		return nil
	case errors.Is(err, repository.ErrGatewayTransactionNotFound):
		return fmt.Errorf("%w: funding %s", ErrUnknownReference, e.Reference)
	case errors.Is(err, repository.ErrAlreadyFinalized):
		return fmt.Errorf("%w: funding %s already final", ErrDuplicateWebhookEvent, e.Reference)
	}
	return fmt.Errorf("failed to mark funding %s failed: %w", e.Reference, err)
}

// lockBestEffort serializes deliveries for one reference across instances.
// The conditional writes underneath stay correct without it, so a lock
// outage only costs some wasted work.
func (s *WebhookService) lockBestEffort(ctx context.Context, log *slog.Logger, key string) func() {
	if s.locker == nil {
		return func() {}
	}
	l, err := s.locker.Acquire(ctx, key)
	if err != nil {
		log.Warn("proceeding without lock", slog.String("key", key), slog.String("error", err.Error()))
		return func() {}
	}
	return func() {
		if err := l.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, lock.ErrNotOwned) {
			log.Warn("failed to release lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

func (s *WebhookService) logOutcome(log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrDuplicateWebhookEvent):
		log.Info("duplicate webhook ignored", slog.Bool("duplicate", true), slog.String("detail", err.Error()))
	case errors.Is(err, ErrUnknownReference):
		log.Warn("webhook for unknown reference", slog.String("detail", err.Error()))
	default:
		log.Error("webhook processing failed", slog.String("error", err.Error()))
	}
}
