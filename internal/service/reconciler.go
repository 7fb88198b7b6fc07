package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"vtu-service/internal/biller"
	"vtu-service/internal/models"
)

// TaskError accumulates the per-purchase failures of one sweep.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

type ReconcilerConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
	BatchSize  int
	Workers    int
}

// Reconciler requeries purchases that stayed pending because their webhook
// never arrived, and resolves them the same way the webhook would have.
type Reconciler struct {
	transactions TransactionRepository
	biller       BillerClient
	resolver     *Resolver
	cfg          ReconcilerConfig
	now          func() time.Time
	log          *slog.Logger
}

func NewReconciler(transactions TransactionRepository, billerClient BillerClient, resolver *Resolver,
	cfg ReconcilerConfig, log *slog.Logger) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 10 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Reconciler{
		transactions: transactions,
		biller:       billerClient,
		resolver:     resolver,
		cfg:          cfg,
		now:          time.Now,
		log:          log,
	}
}

// Run sweeps on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	log := r.log.With(slog.String("op", "service.Reconciler.Run"))
	log.Info("reconciler started",
		slog.Duration("interval", r.cfg.Interval),
		slog.Duration("stale_after", r.cfg.StaleAfter),
	)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("reconciler stopped")
			return
		case <-ticker.C:
			resolved, err := r.SweepOnce(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("sweep finished with errors", slog.Int("resolved", resolved), slog.String("error", err.Error()))
				continue
			}
			if resolved > 0 {
				log.Info("sweep finished", slog.Int("resolved", resolved))
			}
		}
	}
}

// SweepOnce requeries one batch of stale pending purchases and returns how
// many left pending.
func (r *Reconciler) SweepOnce(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.cfg.StaleAfter)
	stale, err := r.transactions.ListStalePending(ctx, cutoff, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	indexCh := make(chan int)
	errCh := make(chan error, len(stale))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		resolved int
	)

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			done, err := r.reconcile(ctx, &stale[idx])
			if err != nil {
				errCh <- err
				continue
			}
			if done {
				mu.Lock()
				resolved++
				mu.Unlock()
			}
		}
	}

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := range stale {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		taskErr.append(err)
	}
	if ctx.Err() != nil {
		return resolved, ctx.Err()
	}
	return resolved, taskErr.asError()
}

func (r *Reconciler) reconcile(ctx context.Context, p *models.PurchaseTransaction) (bool, error) {
	log := r.log.With(slog.String("op", "service.Reconcile"), slog.String("external_reference", p.ExternalReference))

	out, err := r.biller.Requery(ctx, p.ExternalReference)
	if err != nil {
		if errors.Is(err, biller.ErrTimeout) {
			log.Warn("requery timed out, purchase left pending")
			return false, nil
		}
		return false, err
	}

	resolved, err := r.resolver.ApplyOutcome(ctx, p, *out, RefundPrefixReconcile)
	if err != nil {
		if errors.Is(err, ErrDuplicateWebhookEvent) {
			// Finalized by a webhook since the batch was listed.
			return false, nil
		}
		return false, err
	}
	return resolved.Status.IsTerminal(), nil
}
