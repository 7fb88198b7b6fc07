package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"vtu-service/internal/commission"
	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CatalogService struct {
	repo   CatalogRepository
	biller BillerClient
	locker Locker
	log    *slog.Logger
}

func NewCatalogService(repo CatalogRepository, billerClient BillerClient, locker Locker, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		biller: billerClient,
		locker: locker,
		log:    log,
	}
}

// SyncVariations converges the plans of the provider whose code is serviceID
// onto variations. Syncs for the same serviceID never overlap; if the lock
// cannot be taken the sync is abandoned without writing anything.
func (s *CatalogService) SyncVariations(ctx context.Context, serviceID string, variations []models.Variation) (models.SyncResult, error) {
	op := "service.SyncVariations"
	log := s.log.With(slog.String("op", op), slog.String("service_id", serviceID))

	provider, err := s.providerForService(ctx, serviceID)
	if err != nil {
		log.Warn("sync aborted", slog.String("error", err.Error()))
		return models.SyncResult{}, err
	}

	l, err := s.locker.Acquire(ctx, "sync:"+serviceID)
	if err != nil {
		log.Error("sync aborted, lock unavailable", slog.String("error", err.Error()))
		return models.SyncResult{}, fmt.Errorf("failed to lock catalog sync for %s: %w", serviceID, err)
	}
	defer func() {
		if err := l.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to release sync lock", slog.String("error", err.Error()))
		}
	}()

	result, err := s.repo.SyncPlans(ctx, provider.ID, roundPlanAmounts(variations))
	if err != nil {
		log.Error("sync failed", slog.String("error", err.Error()))
		return models.SyncResult{}, fmt.Errorf("failed to sync plans for %s: %w", serviceID, err)
	}

	log.Info("catalog synced",
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("deactivated", result.Deactivated),
	)
	return result, nil
}

// SyncFromBiller pulls the current variation list for serviceID and syncs it.
func (s *CatalogService) SyncFromBiller(ctx context.Context, serviceID string) (models.SyncResult, error) {
	op := "service.SyncFromBiller"
	log := s.log.With(slog.String("op", op), slog.String("service_id", serviceID))

	if strings.TrimSpace(serviceID) == "" {
		return models.SyncResult{}, &ValidationError{Field: "service_id", Reason: "is required"}
	}

	variations, err := s.biller.ServiceVariations(ctx, serviceID)
	if err != nil {
		log.Error("failed to fetch variations", slog.String("error", err.Error()))
		return models.SyncResult{}, &ProviderCallError{Reference: serviceID, Err: err}
	}
	return s.SyncVariations(ctx, serviceID, variations)
}

func (s *CatalogService) UpdateCommission(ctx context.Context, providerID uuid.UUID, update models.CommissionUpdate) (*models.ServiceProvider, error) {
	op := "service.UpdateCommission"
	log := s.log.With(slog.String("op", op), slog.String("provider_id", providerID.String()))

	switch update.Type {
	case models.CommissionPercentage:
		if update.Rate.IsNegative() || update.Rate.GreaterThan(hundred) {
			return nil, &ValidationError{Field: "commission_rate", Reason: "must be between 0 and 100"}
		}
		update.FlatFeeAmount = decimal.Zero
	case models.CommissionFlatFee:
		if update.FlatFeeAmount.IsNegative() {
			return nil, &ValidationError{Field: "flat_fee_amount", Reason: "must not be negative"}
		}
		update.Rate = decimal.Zero
	default:
		return nil, &ValidationError{Field: "commission_type", Reason: "must be percentage or flat_fee"}
	}

	p, err := s.repo.UpdateCommission(ctx, providerID, update)
	if err != nil {
		if errors.Is(err, repository.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		log.Error("failed to update commission", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update commission: %w", err)
	}

	log.Info("commission updated",
		slog.String("commission_type", string(p.CommissionType)),
		slog.String("commission_rate", p.CommissionRate.String()),
		slog.String("flat_fee_amount", p.FlatFeeAmount.String()),
	)
	return p, nil
}

func (s *CatalogService) ListProviders(ctx context.Context, serviceType models.ServiceType) ([]models.ServiceProvider, error) {
	if serviceType != "" && !serviceType.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported service type %q", serviceType)}
	}
	providers, err := s.repo.ListProviders(ctx, serviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

func (s *CatalogService) ListPlans(ctx context.Context, providerID uuid.UUID, activeOnly bool) ([]models.ServicePlan, error) {
	if _, err := s.repo.GetProvider(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to load provider: %w", err)
	}
	plans, err := s.repo.ListPlans(ctx, providerID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// providerForService maps a biller serviceID to the local provider. Codes
// outside the known naming scheme fall back to a unique code match across
// all types.
func (s *CatalogService) providerForService(ctx context.Context, serviceID string) (*models.ServiceProvider, error) {
	if serviceType, ok := models.ServiceTypeForBillerCode(serviceID); ok {
		p, err := s.repo.GetProviderByCode(ctx, serviceID, serviceType)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrProviderNotFound) {
			return nil, fmt.Errorf("failed to load provider %s: %w", serviceID, err)
		}
	}

	all, err := s.repo.ListProviders(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	var match *models.ServiceProvider
	for i := range all {
		if all[i].Code != serviceID {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: service %s matches several providers", ErrProviderNotFound, serviceID)
		}
		match = &all[i]
	}
	if match == nil {
		return nil, fmt.Errorf("%w: service %s", ErrProviderNotFound, serviceID)
	}
	return match, nil
}

// SeedProviders creates the providers that do not exist yet and returns how
// many were added. Existing providers keep their commission settings.
func (s *CatalogService) SeedProviders(ctx context.Context, providers []models.ServiceProvider) (int, error) {
	op := "service.SeedProviders"
	log := s.log.With(slog.String("op", op))

	created := 0
	for i := range providers {
		p := providers[i]
		if err := s.repo.CreateProvider(ctx, &p); err != nil {
			if errors.Is(err, repository.ErrDuplicateReference) {
				continue
			}
			log.Error("failed to seed provider", slog.String("code", p.Code), slog.String("error", err.Error()))
			return created, fmt.Errorf("failed to seed provider %s: %w", p.Code, err)
		}
		created++
	}
	if created > 0 {
		log.Info("providers seeded", slog.Int("created", created))
	}
	return created, nil
}

// roundPlanAmounts brings biller prices to currency scale before they are
// stored, so a plan price can be debited as is.
func roundPlanAmounts(variations []models.Variation) []models.Variation {
	out := make([]models.Variation, len(variations))
	for i, v := range variations {
		v.Amount = v.Amount.Round(commission.Scale)
		out[i] = v
	}
	return out
}
