package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"vtu-service/internal/biller"
	"vtu-service/internal/commission"
	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^(\+?234|0)[789][01]\d{8}$`)

// PurchaseLimits bounds the gross amount of a single purchase. A zero Max
// means no upper bound.
type PurchaseLimits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type PurchaseService struct {
	transactions TransactionRepository
	catalog      CatalogRepository
	biller       BillerClient
	resolver     *Resolver
	limits       PurchaseLimits
	now          func() time.Time
	log          *slog.Logger
}

func NewPurchaseService(transactions TransactionRepository, catalog CatalogRepository, billerClient BillerClient,
	resolver *Resolver, limits PurchaseLimits, log *slog.Logger) *PurchaseService {
	return &PurchaseService{
		transactions: transactions,
		catalog:      catalog,
		biller:       billerClient,
		resolver:     resolver,
		limits:       limits,
		now:          time.Now,
		log:          log,
	}
}

// CreatePurchase validates req, debits the caller's wallet by the discounted
// total and submits the purchase to the biller.
//
// The returned purchase carries the best status known right now. A biller
// timeout leaves it pending for a webhook or the reconciler. A biller error
// or failure code refunds the debit and returns the failed purchase together
// with a *ProviderCallError.
func (s *PurchaseService) CreatePurchase(ctx context.Context, userID uuid.UUID, req models.PurchaseRequest) (*models.PurchaseTransaction, error) {
	op := "service.CreatePurchase"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("type", string(req.Type)),
		slog.String("provider", req.Provider),
	)

	if req.IdempotencyKey != "" {
		existing, err := s.transactions.GetByIdempotencyKey(ctx, userID, req.IdempotencyKey)
		if err == nil {
			log.Info("returning purchase for repeated idempotency key",
				slog.String("external_reference", existing.ExternalReference))
			return existing, nil
		}
		if !errors.Is(err, repository.ErrTransactionNotFound) {
			log.Error("idempotency lookup failed", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
		}
	}

	if err := s.validateRequest(req); err != nil {
		log.Warn("invalid purchase request", slog.String("error", err.Error()))
		return nil, err
	}

	provider, plan, err := s.resolveCatalog(ctx, req)
	if err != nil {
		log.Warn("purchase rejected by catalog", slog.String("error", err.Error()))
		return nil, err
	}

	amount := req.Amount
	if plan != nil && !amount.IsPositive() {
		amount = plan.Amount
	}
	if err := s.validateAmount(amount); err != nil {
		log.Warn("invalid purchase amount", slog.String("error", err.Error()))
		return nil, err
	}

	quote := commission.Compute(amount, provider)
	purchase := &models.PurchaseTransaction{
		ID:                uuid.New(),
		UserID:            userID,
		Type:              req.Type,
		Provider:          provider.Code,
		VariationCode:     req.VariationCode,
		BillerCode:        req.BillerCode,
		Recipient:         req.Recipient,
		Amount:            quote.Gross,
		UserDiscount:      quote.Discount,
		TotalAmount:       quote.NetPayable,
		ExternalReference: biller.NewRequestID(s.now()),
		Description:       describe(provider, plan, req),
		IdempotencyKey:    req.IdempotencyKey,
	}
	log = log.With(slog.String("external_reference", purchase.ExternalReference))

	created, err := withRetry(ctx, log, func() (*models.PurchaseTransaction, error) {
		return s.transactions.CreateWithDebit(ctx, purchase)
	})
	if err != nil {
		if be := balanceError(err); be != nil {
			log.Warn("insufficient balance", slog.String("error", be.Error()))
			return nil, be
		}
		switch {
		case errors.Is(err, repository.ErrWalletNotFound):
			log.Warn("wallet not found")
			return nil, &InsufficientBalanceError{Required: purchase.TotalAmount, Available: decimal.Zero}
		case errors.Is(err, repository.ErrDuplicateIdempotencyKey):
			existing, lookupErr := s.transactions.GetByIdempotencyKey(ctx, userID, req.IdempotencyKey)
			if lookupErr == nil {
				log.Info("concurrent purchase with same idempotency key", slog.Bool("duplicate", true))
				return existing, nil
			}
			err = lookupErr
		}
		log.Error("failed to debit wallet for purchase", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	log.Info("wallet debited, calling biller",
		slog.String("total_amount", created.TotalAmount.String()),
		slog.String("user_discount", created.UserDiscount.String()),
	)

	// The debit is committed. From here the outcome is only decided by the
	// biller, so a caller going away must not turn into a refund. The biller
	// client's own timeout bounds the call.
	ctx = context.WithoutCancel(ctx)

	out, err := s.biller.Pay(ctx, biller.PayRequest{
		RequestID:     created.ExternalReference,
		ServiceID:     provider.Code,
		BillersCode:   billersCode(created),
		VariationCode: created.VariationCode,
		Amount:        created.Amount,
		Phone:         created.Recipient,
	})
	if err != nil {
		if errors.Is(err, biller.ErrTimeout) {
			log.Warn("biller timed out, purchase left pending")
			return created, nil
		}
		log.Error("biller call failed, refunding", slog.String("error", err.Error()))
		failed, resolveErr := s.resolver.Fail(ctx, created, "Provider error: purchase could not be completed", RefundPrefixPurchase)
		if resolveErr != nil {
			if errors.Is(resolveErr, ErrDuplicateWebhookEvent) {
				return s.current(ctx, created), nil
			}
			return s.current(ctx, created), resolveErr
		}
		return failed, &ProviderCallError{Reference: created.ExternalReference, Err: err}
	}

	// A synchronous failure always refunds the full debit.
	syncOutcome := *out
	syncOutcome.HasAmount = false

	resolved, err := s.resolver.ApplyOutcome(ctx, created, syncOutcome, RefundPrefixPurchase)
	if err != nil {
		if errors.Is(err, ErrDuplicateWebhookEvent) {
			// A webhook got there first.
			return s.current(ctx, created), nil
		}
		return s.current(ctx, created), err
	}

	if resolved.Status.Refundable() {
		log.Warn("biller declined purchase",
			slog.String("code", out.Code),
			slog.String("description", out.Description),
		)
		return resolved, &ProviderCallError{
			Reference: resolved.ExternalReference,
			Err:       fmt.Errorf("biller responded %s: %s", out.Code, out.Description),
		}
	}

	log.Info("purchase submitted", slog.String("status", string(resolved.Status)))
	return resolved, nil
}

func (s *PurchaseService) GetByExternalReference(ctx context.Context, userID uuid.UUID, ref string) (*models.PurchaseTransaction, error) {
	op := "service.GetPurchase"
	log := s.log.With(slog.String("op", op), slog.String("external_reference", ref))

	p, err := s.transactions.GetByExternalReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		log.Error("failed to load purchase", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load purchase: %w", err)
	}
	// Other users' purchases are reported as missing.
	if p.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	return p, nil
}

// current reloads p, falling back to the copy in hand.
func (s *PurchaseService) current(ctx context.Context, p *models.PurchaseTransaction) *models.PurchaseTransaction {
	latest, err := s.transactions.GetTransaction(ctx, p.ID)
	if err != nil {
		return p
	}
	return latest
}

func (s *PurchaseService) validateRequest(req models.PurchaseRequest) error {
	if !req.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported service type %q", req.Type)}
	}
	if strings.TrimSpace(req.Provider) == "" {
		return &ValidationError{Field: "provider", Reason: "is required"}
	}
	if !phonePattern.MatchString(strings.TrimSpace(req.Recipient)) {
		return &ValidationError{Field: "recipient", Reason: "must be a valid Nigerian phone number"}
	}
	if req.Type.RequiresBillerCode() && strings.TrimSpace(req.BillerCode) == "" {
		return &ValidationError{Field: "biller_code", Reason: fmt.Sprintf("is required for %s", req.Type)}
	}
	if req.Type == models.ServiceTypeData && strings.TrimSpace(req.VariationCode) == "" {
		return &ValidationError{Field: "variation_code", Reason: "is required for data"}
	}
	if req.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}

func (s *PurchaseService) validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !commission.InScale(amount) {
		return &ValidationError{Field: "amount", Reason: "must have at most 2 decimal places"}
	}
	if amount.LessThan(s.limits.Min) {
		return &ValidationError{Field: "amount", Reason: "must be at least " + s.limits.Min.StringFixed(2)}
	}
	if s.limits.Max.IsPositive() && amount.GreaterThan(s.limits.Max) {
		return &ValidationError{Field: "amount", Reason: "must be at most " + s.limits.Max.StringFixed(2)}
	}
	return nil
}

// resolveCatalog finds the enabled provider and, when a variation code is
// given, its active plan. Dynamic providers may name codes the catalog does
// not list; for those the plan is nil.
func (s *PurchaseService) resolveCatalog(ctx context.Context, req models.PurchaseRequest) (*models.ServiceProvider, *models.ServicePlan, error) {
	provider, err := s.catalog.GetProviderByCode(ctx, req.Provider, req.Type)
	if err != nil {
		if errors.Is(err, repository.ErrProviderNotFound) {
			return nil, nil, &ValidationError{Field: "provider", Reason: fmt.Sprintf("unknown %s provider %q", req.Type, req.Provider)}
		}
		return nil, nil, fmt.Errorf("failed to load provider: %w", err)
	}
	if !provider.Available() {
		return nil, nil, &ValidationError{Field: "provider", Reason: "provider is currently unavailable"}
	}

	if req.VariationCode == "" {
		return provider, nil, nil
	}

	plan, err := s.catalog.GetPlan(ctx, provider.ID, req.VariationCode)
	switch {
	case err == nil && plan.Status == models.PlanStatusActive:
		return provider, plan, nil
	case err != nil && !errors.Is(err, repository.ErrPlanNotFound):
		return nil, nil, fmt.Errorf("failed to load plan: %w", err)
	case req.Type.AcceptsDynamicVariation():
		return provider, nil, nil
	}
	return nil, nil, &ValidationError{Field: "variation_code", Reason: fmt.Sprintf("no active plan %q", req.VariationCode)}
}

func billersCode(p *models.PurchaseTransaction) string {
	if p.BillerCode != "" {
		return p.BillerCode
	}
	return p.Recipient
}

func describe(provider *models.ServiceProvider, plan *models.ServicePlan, req models.PurchaseRequest) string {
	if plan != nil {
		return fmt.Sprintf("%s %s for %s", provider.Name, plan.Name, req.Recipient)
	}
	if req.BillerCode != "" {
		return fmt.Sprintf("%s %s payment for %s", provider.Name, req.Type, req.BillerCode)
	}
	return fmt.Sprintf("%s %s for %s", provider.Name, req.Type, req.Recipient)
}
