// Package memstore is an in-memory implementation of the repository
// interfaces. A single mutex stands in for row locks, so every operation the
// Postgres repositories run inside one database transaction is atomic here
// too.
package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"vtu-service/internal/models"
	"vtu-service/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	wallets       map[uuid.UUID]*models.Wallet // keyed by user id
	entries       []*models.WalletTransaction
	purchases     map[uuid.UUID]*models.PurchaseTransaction
	byExternalRef map[string]uuid.UUID
	byIdemKey     map[idemKey]uuid.UUID
	gateway       map[string]*models.PaymentGatewayTransaction
	providers     map[uuid.UUID]*models.ServiceProvider
	plans         map[uuid.UUID]map[string]*models.ServicePlan
}

type idemKey struct {
	user uuid.UUID
	key  string
}

func New() *Store {
	return &Store{
		now:           func() time.Time { return time.Now().UTC() },
		wallets:       make(map[uuid.UUID]*models.Wallet),
		purchases:     make(map[uuid.UUID]*models.PurchaseTransaction),
		byExternalRef: make(map[string]uuid.UUID),
		byIdemKey:     make(map[idemKey]uuid.UUID),
		gateway:       make(map[string]*models.PaymentGatewayTransaction),
		providers:     make(map[uuid.UUID]*models.ServiceProvider),
		plans:         make(map[uuid.UUID]map[string]*models.ServicePlan),
	}
}

// WithClock replaces the time source, for tests that need stale rows.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Wallets

func (s *Store) CreateWallet(_ context.Context, userID uuid.UUID) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.wallets[userID]; ok {
		c := *w
		return &c, nil
	}
	now := s.now()
	w := &models.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	s.wallets[userID] = w
	c := *w
	return &c, nil
}

func (s *Store) GetWalletByUserID(_ context.Context, userID uuid.UUID) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	c := *w
	return &c, nil
}

func (s *Store) ApplyEntry(_ context.Context, entry models.LedgerEntry) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wt, err := s.applyEntryLocked(entry, s.now())
	if err != nil {
		return nil, err
	}
	c := *wt
	return &c, nil
}

func (s *Store) ListEntries(_ context.Context, userID uuid.UUID, limit, offset int) ([]models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.WalletTransaction
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].UserID == userID {
			out = append(out, *s.entries[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// applyEntryLocked validates the entry, moves the balance and appends the
// ledger row. Nothing is mutated when it returns an error.
func (s *Store) applyEntryLocked(entry models.LedgerEntry, now time.Time) (*models.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return nil, repository.ErrInvalidAmount
	}
	if !entry.Type.Valid() {
		return nil, repository.ErrUnknownOperationType
	}
	w, ok := s.wallets[entry.UserID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	if entry.Type == models.EntryTypeDebit && w.Balance.LessThan(entry.Amount) {
		return nil, &repository.BalanceError{Required: entry.Amount, Available: w.Balance}
	}

	before := w.Balance
	w.Balance = entry.Type.Apply(before, entry.Amount)
	w.UpdatedAt = now
	w.Version++

	wt := &models.WalletTransaction{
		ID:               uuid.New(),
		WalletID:         w.ID,
		UserID:           w.UserID,
		Type:             entry.Type,
		Amount:           entry.Amount,
		BalanceBefore:    before,
		BalanceAfter:     w.Balance,
		Reference:        entry.Reference,
		Description:      entry.Description,
		GatewayReference: entry.GatewayReference,
		GatewayResponse:  entry.GatewayResponse,
		CreatedAt:        now,
	}
	s.entries = append(s.entries, wt)
	return wt, nil
}

// Purchases

func (s *Store) CreateWithDebit(_ context.Context, p *models.PurchaseTransaction) (*models.PurchaseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byExternalRef[p.ExternalReference]; ok {
		return nil, repository.ErrDuplicateReference
	}
	key := idemKey{user: p.UserID, key: p.IdempotencyKey}
	if p.IdempotencyKey != "" {
		if _, ok := s.byIdemKey[key]; ok {
			return nil, repository.ErrDuplicateIdempotencyKey
		}
	}
	if _, ok := s.wallets[p.UserID]; !ok {
		return nil, repository.ErrWalletNotFound
	}

	now := s.now()
	created := *p
	created.Status = models.StatusPending
	created.CreatedAt = now
	created.UpdatedAt = now

	if created.TotalAmount.IsPositive() {
		wt, err := s.applyEntryLocked(models.LedgerEntry{
			UserID:      created.UserID,
			Type:        models.EntryTypeDebit,
			Amount:      created.TotalAmount,
			Reference:   created.ExternalReference,
			Description: created.Description,
		}, now)
		if err != nil {
			return nil, err
		}
		id := wt.ID
		created.WalletTransactionID = &id
	}

	stored := created
	s.purchases[created.ID] = &stored
	s.byExternalRef[created.ExternalReference] = created.ID
	if created.IdempotencyKey != "" {
		s.byIdemKey[key] = created.ID
	}
	return &created, nil
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (*models.PurchaseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchaseLocked(id)
}

func (s *Store) GetByExternalReference(_ context.Context, ref string) (*models.PurchaseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byExternalRef[ref]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	return s.purchaseLocked(id)
}

func (s *Store) GetByIdempotencyKey(_ context.Context, userID uuid.UUID, key string) (*models.PurchaseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byIdemKey[idemKey{user: userID, key: key}]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	return s.purchaseLocked(id)
}

func (s *Store) Resolve(_ context.Context, id uuid.UUID, update models.StatusUpdate,
	refund *models.Refund) (*models.PurchaseTransaction, *models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.purchases[id]
	if !ok {
		return nil, nil, repository.ErrTransactionNotFound
	}
	if p.Status != models.StatusPending {
		return nil, nil, repository.ErrAlreadyFinalized
	}

	now := s.now()
	var credit *models.WalletTransaction
	if refund != nil && refund.Amount.IsPositive() {
		wt, err := s.applyEntryLocked(models.LedgerEntry{
			UserID:      p.UserID,
			Type:        models.EntryTypeCredit,
			Amount:      refund.Amount,
			Reference:   refund.Reference,
			Description: refund.Description,
		}, now)
		if err != nil {
			return nil, nil, err
		}
		c := *wt
		credit = &c
	}

	p.Status = update.Status
	if update.VTPassReference != "" {
		p.VTPassReference = update.VTPassReference
	}
	if update.PurchasedCode != "" {
		p.PurchasedCode = update.PurchasedCode
	}
	if update.Description != "" {
		p.Description = update.Description
	}
	p.UpdatedAt = now

	c := *p
	return &c, credit, nil
}

func (s *Store) ListStalePending(_ context.Context, olderThan time.Time, limit int) ([]models.PurchaseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.PurchaseTransaction
	for _, p := range s.purchases {
		if p.Status == models.StatusPending && p.CreatedAt.Before(olderThan) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) purchaseLocked(id uuid.UUID) (*models.PurchaseTransaction, error) {
	p, ok := s.purchases[id]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	c := *p
	return &c, nil
}

// Gateway funding

func (s *Store) CreateGatewayTransaction(_ context.Context, g *models.PaymentGatewayTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gateway[g.Reference]; ok {
		return repository.ErrDuplicateReference
	}
	now := s.now()
	g.CreatedAt = now
	g.UpdatedAt = now
	c := *g
	s.gateway[g.Reference] = &c
	return nil
}

func (s *Store) GetGatewayTransaction(_ context.Context, reference string) (*models.PaymentGatewayTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gateway[reference]
	if !ok {
		return nil, repository.ErrGatewayTransactionNotFound
	}
	c := *g
	return &c, nil
}

func (s *Store) SetAuthorization(_ context.Context, reference, authorizationURL string, response json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gateway[reference]
	if !ok {
		return repository.ErrGatewayTransactionNotFound
	}
	g.AuthorizationURL = authorizationURL
	g.GatewayResponse = response
	g.UpdatedAt = s.now()
	return nil
}

func (s *Store) MarkGatewayFailed(_ context.Context, reference string, response json.RawMessage) (*models.PaymentGatewayTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gateway[reference]
	if !ok {
		return nil, repository.ErrGatewayTransactionNotFound
	}
	if g.Status != models.GatewayStatusPending {
		return nil, repository.ErrAlreadyFinalized
	}
	g.Status = models.GatewayStatusFailed
	if len(response) > 0 {
		g.GatewayResponse = response
	}
	g.UpdatedAt = s.now()
	c := *g
	return &c, nil
}

func (s *Store) CompleteWithCredit(_ context.Context, reference string, response json.RawMessage,
	description string) (*models.PaymentGatewayTransaction, *models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gateway[reference]
	if !ok {
		return nil, nil, repository.ErrGatewayTransactionNotFound
	}
	if g.Status == models.GatewayStatusSuccess {
		return nil, nil, repository.ErrAlreadyFinalized
	}

	now := s.now()
	var credit *models.WalletTransaction
	if g.WalletTransactionID != nil {
		for _, e := range s.entries {
			if e.ID == *g.WalletTransactionID {
				ref := reference
				e.GatewayReference = &ref
				e.GatewayResponse = response
			}
		}
	} else {
		ref := reference
		wt, err := s.applyEntryLocked(models.LedgerEntry{
			UserID:           g.UserID,
			Type:             models.EntryTypeCredit,
			Amount:           g.Amount,
			Reference:        reference,
			Description:      description,
			GatewayReference: &ref,
			GatewayResponse:  response,
		}, now)
		if err != nil {
			return nil, nil, err
		}
		id := wt.ID
		g.WalletTransactionID = &id
		c := *wt
		credit = &c
	}

	g.Status = models.GatewayStatusSuccess
	if len(response) > 0 {
		g.GatewayResponse = response
	}
	g.UpdatedAt = now
	c := *g
	return &c, credit, nil
}

// Catalog

func (s *Store) CreateProvider(_ context.Context, p *models.ServiceProvider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.providers {
		if existing.Code == p.Code && existing.Type == p.Type {
			return repository.ErrDuplicateReference
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	c := *p
	s.providers[p.ID] = &c
	return nil
}

func (s *Store) GetProvider(_ context.Context, id uuid.UUID) (*models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, repository.ErrProviderNotFound
	}
	c := *p
	return &c, nil
}

func (s *Store) GetProviderByCode(_ context.Context, code string, serviceType models.ServiceType) (*models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.providers {
		if p.Code == code && p.Type == serviceType {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrProviderNotFound
}

func (s *Store) ListProviders(_ context.Context, serviceType models.ServiceType) ([]models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ServiceProvider
	for _, p := range s.providers {
		if serviceType == "" || p.Type == serviceType {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) UpdateCommission(_ context.Context, id uuid.UUID, update models.CommissionUpdate) (*models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, repository.ErrProviderNotFound
	}
	p.CommissionType = update.Type
	p.CommissionRate = update.Rate
	p.FlatFeeAmount = update.FlatFeeAmount
	p.UpdatedAt = s.now()
	c := *p
	return &c, nil
}

func (s *Store) GetPlan(_ context.Context, providerID uuid.UUID, code string) (*models.ServicePlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[providerID][code]
	if !ok {
		return nil, repository.ErrPlanNotFound
	}
	c := *plan
	return &c, nil
}

func (s *Store) ListPlans(_ context.Context, providerID uuid.UUID, activeOnly bool) ([]models.ServicePlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ServicePlan
	for _, plan := range s.plans[providerID] {
		if activeOnly && plan.Status != models.PlanStatusActive {
			continue
		}
		out = append(out, *plan)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.LessThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) SyncPlans(_ context.Context, providerID uuid.UUID, variations []models.Variation) (models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result models.SyncResult
	if _, ok := s.providers[providerID]; !ok {
		return result, repository.ErrProviderNotFound
	}
	plans, ok := s.plans[providerID]
	if !ok {
		plans = make(map[string]*models.ServicePlan)
		s.plans[providerID] = plans
	}

	now := s.now()
	seen := make(map[string]struct{}, len(variations))
	for _, v := range variations {
		if v.Code == "" {
			continue
		}
		_, repeated := seen[v.Code]
		seen[v.Code] = struct{}{}

		if plan, ok := plans[v.Code]; ok {
			plan.Name = v.Name
			plan.Amount = v.Amount
			plan.Status = models.PlanStatusActive
			plan.UpdatedAt = now
			if !repeated {
				result.Updated++
			}
			continue
		}
		plans[v.Code] = &models.ServicePlan{
			ID:         uuid.New(),
			ProviderID: providerID,
			Name:       v.Name,
			Code:       v.Code,
			Amount:     v.Amount,
			Status:     models.PlanStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		result.Created++
	}

	for code, plan := range plans {
		if _, ok := seen[code]; ok || plan.Status != models.PlanStatusActive {
			continue
		}
		plan.Status = models.PlanStatusInactive
		plan.UpdatedAt = now
		result.Deactivated++
	}
	return result, nil
}
