package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vtu-service/internal/api"
	"vtu-service/internal/biller"
	"vtu-service/internal/config"
	"vtu-service/internal/gateway"
	"vtu-service/internal/lock"
	"vtu-service/internal/logging"
	"vtu-service/internal/models"
	"vtu-service/internal/repository"
	"vtu-service/internal/repository/memstore"
	"vtu-service/internal/service"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type stores struct {
	wallets      service.WalletRepository
	transactions service.TransactionRepository
	gatewayTxs   service.GatewayRepository
	catalog      service.CatalogRepository
	close        func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging)
	log.Info("starting vtu-service", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver))

	if err := run(cfg, log); err != nil {
		log.Error("service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := initStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	locker, closeLocker, err := initLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	lower, upper, err := cfg.Purchase.Limits()
	if err != nil {
		return err
	}

	billerClient := biller.NewClient(biller.Config{
		BaseURL:   cfg.Biller.BaseURL,
		APIKey:    cfg.Biller.APIKey,
		PublicKey: cfg.Biller.PublicKey,
		SecretKey: cfg.Biller.SecretKey,
		Timeout:   cfg.Biller.Timeout,
	}, log)
	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:     cfg.Gateway.BaseURL,
		SecretKey:   cfg.Gateway.SecretKey,
		CallbackURL: cfg.Gateway.CallbackURL,
		Timeout:     cfg.Gateway.Timeout,
	}, log)

	resolver := service.NewResolver(st.transactions, log)
	walletService := service.NewWalletService(st.wallets, log)
	catalogService := service.NewCatalogService(st.catalog, billerClient, locker, log)
	purchaseService := service.NewPurchaseService(st.transactions, st.catalog, billerClient, resolver,
		service.PurchaseLimits{Min: lower, Max: upper}, log)
	webhookService := service.NewWebhookService(st.transactions, st.gatewayTxs, catalogService, resolver, locker,
		cfg.Gateway.SecretKey, log)
	fundingService := service.NewFundingService(st.wallets, st.gatewayTxs, gatewayClient, log)

	if cfg.Catalog.SeedDefaults {
		if _, err := catalogService.SeedProviders(ctx, models.DefaultProviders()); err != nil {
			return err
		}
	}

	if cfg.Reconcile.Enabled {
		reconciler := service.NewReconciler(st.transactions, billerClient, resolver, service.ReconcilerConfig{
			Interval:   cfg.Reconcile.Interval,
			StaleAfter: cfg.Reconcile.StaleAfter,
			BatchSize:  cfg.Reconcile.BatchSize,
			Workers:    cfg.Reconcile.Workers,
		}, log)
		go reconciler.Run(ctx)
	}

	handler := api.NewHandler(walletService, purchaseService, catalogService, webhookService, fundingService, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      api.NewRouter(handler, log),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.Int("port", cfg.HTTP.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited properly")
	return nil
}

func initStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("using in-memory storage, all data is lost on restart")
		store := memstore.New()
		return &stores{
			wallets:      store,
			transactions: store,
			gatewayTxs:   store,
			catalog:      store,
			close:        func() error { return nil },
		}, nil
	}

	db, err := initDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := repository.CreateTablesIfNotExists(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &stores{
		wallets:      repository.NewWalletRepository(db, log),
		transactions: repository.NewTransactionRepository(db, log),
		gatewayTxs:   repository.NewGatewayRepository(db, log),
		catalog:      repository.NewCatalogRepository(db, log),
		close:        db.Close,
	}, nil
}

func initDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DataBase.URL)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(cfg.ConnectionPool.MaxOpenConns)
	db.SetMaxIdleConns(cfg.ConnectionPool.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnectionPool.MaxLifetime)

	return db, nil
}

func initLocker(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Locker, func() error, error) {
	opts := lock.Options{TTL: cfg.Redis.LockTTL, Wait: cfg.Redis.LockWait}
	if cfg.Redis.Addr == "" {
		log.Warn("REDIS_ADDR not set, using in-process locks")
		return lock.NewLocalLocker(opts), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return lock.NewRedisLocker(client, "vtu:lock:", opts), client.Close, nil
}
