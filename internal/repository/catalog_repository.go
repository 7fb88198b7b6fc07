package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"vtu-service/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const providerColumns = `id, name, type, code, commission_rate, commission_type, flat_fee_amount,
	is_enabled, status, created_at, updated_at`

const planColumns = `id, provider_id, name, code, amount, validity, description, status, created_at, updated_at`

type CatalogRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewCatalogRepository(db *sql.DB, log *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:  db,
		log: log,
	}
}

func (r *CatalogRepository) CreateProvider(ctx context.Context, p *models.ServiceProvider) error {
	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO service_providers (` + providerColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Type, p.Code, p.CommissionRate, p.CommissionType, p.FlatFeeAmount,
		p.IsEnabled, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	return mapError(err)
}

func (r *CatalogRepository) GetProvider(ctx context.Context, id uuid.UUID) (*models.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE id = $1`
	return scanProvider(r.db.QueryRowContext(ctx, query, id))
}

func (r *CatalogRepository) GetProviderByCode(ctx context.Context, code string, serviceType models.ServiceType) (*models.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE code = $1 AND type = $2`
	return scanProvider(r.db.QueryRowContext(ctx, query, code, serviceType))
}

// ListProviders returns every provider of serviceType, or all providers when
// serviceType is empty.
func (r *CatalogRepository) ListProviders(ctx context.Context, serviceType models.ServiceType) ([]models.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers
	WHERE ($1 = '' OR type = $1)
	ORDER BY type, name`

	rows, err := r.db.QueryContext(ctx, query, string(serviceType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ServiceProvider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) UpdateCommission(ctx context.Context, id uuid.UUID, update models.CommissionUpdate) (*models.ServiceProvider, error) {
	query := `UPDATE service_providers
	SET commission_type = $2, commission_rate = $3, flat_fee_amount = $4, updated_at = $5
	WHERE id = $1
	RETURNING ` + providerColumns

	return scanProvider(r.db.QueryRowContext(ctx, query,
		id, update.Type, update.Rate, update.FlatFeeAmount, time.Now().UTC(),
	))
}

func (r *CatalogRepository) GetPlan(ctx context.Context, providerID uuid.UUID, code string) (*models.ServicePlan, error) {
	query := `SELECT ` + planColumns + ` FROM service_plans WHERE provider_id = $1 AND code = $2`
	return scanPlan(r.db.QueryRowContext(ctx, query, providerID, code))
}

func (r *CatalogRepository) ListPlans(ctx context.Context, providerID uuid.UUID, activeOnly bool) ([]models.ServicePlan, error) {
	query := `SELECT ` + planColumns + ` FROM service_plans
	WHERE provider_id = $1 AND ($2 = FALSE OR status = 'active')
	ORDER BY amount, name`

	rows, err := r.db.QueryContext(ctx, query, providerID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ServicePlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SyncPlans converges the provider's plans onto variations: known codes are
// refreshed and reactivated, new codes are inserted and every other active
// plan is deactivated. Plans are never deleted.
func (r *CatalogRepository) SyncPlans(ctx context.Context, providerID uuid.UUID, variations []models.Variation) (models.SyncResult, error) {
	var result models.SyncResult

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return result, err
	}
	defer tx.Rollback()

	var locked uuid.UUID
	lock := `SELECT id FROM service_providers WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lock, providerID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, ErrProviderNotFound
		}
		return result, err
	}

	existing := make(map[string]struct{})
	rows, err := tx.QueryContext(ctx, `SELECT code FROM service_plans WHERE provider_id = $1`, providerID)
	if err != nil {
		return result, err
	}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			rows.Close()
			return result, err
		}
		existing[code] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return result, err
	}

	now := time.Now().UTC()
	codes := make([]string, 0, len(variations))
	for _, v := range dedupeVariations(variations) {
		codes = append(codes, v.Code)

		if _, ok := existing[v.Code]; ok {
			update := `UPDATE service_plans SET name = $3, amount = $4, status = 'active', updated_at = $5
			WHERE provider_id = $1 AND code = $2`
			if _, err := tx.ExecContext(ctx, update, providerID, v.Code, v.Name, v.Amount, now); err != nil {
				return result, err
			}
			result.Updated++
			continue
		}

		insert := `INSERT INTO service_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, '', '', 'active', $6, $7)`
		if _, err := tx.ExecContext(ctx, insert, uuid.New(), providerID, v.Name, v.Code, v.Amount, now, now); err != nil {
			return result, mapError(err)
		}
		result.Created++
	}

	prune := `UPDATE service_plans SET status = 'inactive', updated_at = $2
	WHERE provider_id = $1 AND status = 'active' AND NOT (code = ANY($3))`
	res, err := tx.ExecContext(ctx, prune, providerID, now, pq.Array(codes))
	if err != nil {
		return result, err
	}
	deactivated, err := res.RowsAffected()
	if err != nil {
		return result, err
	}
	result.Deactivated = int(deactivated)

	if err := tx.Commit(); err != nil {
		return result, mapError(err)
	}
	return result, nil
}

// dedupeVariations drops blank codes and keeps the last entry for a repeated
// code, preserving first-seen order.
func dedupeVariations(variations []models.Variation) []models.Variation {
	index := make(map[string]int, len(variations))
	out := make([]models.Variation, 0, len(variations))
	for _, v := range variations {
		if v.Code == "" {
			continue
		}
		if i, ok := index[v.Code]; ok {
			out[i] = v
			continue
		}
		index[v.Code] = len(out)
		out = append(out, v)
	}
	return out
}

func scanProvider(row rowScanner) (*models.ServiceProvider, error) {
	var p models.ServiceProvider
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.Code, &p.CommissionRate, &p.CommissionType, &p.FlatFeeAmount,
		&p.IsEnabled, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanPlan(row rowScanner) (*models.ServicePlan, error) {
	var p models.ServicePlan
	err := row.Scan(
		&p.ID, &p.ProviderID, &p.Name, &p.Code, &p.Amount, &p.Validity, &p.Description,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}
