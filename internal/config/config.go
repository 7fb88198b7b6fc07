package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env string `yaml:"env" env:"ENV" envconfig:"ENV" env-default:"local" default:"local"`

	HTTP           HTTPConfig           `yaml:"http"`
	DataBase       DatabaseConfig       `yaml:"database"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
	Storage        StorageConfig        `yaml:"storage"`
	Redis          RedisConfig          `yaml:"redis"`
	Biller         BillerConfig         `yaml:"biller"`
	Gateway        GatewayConfig        `yaml:"gateway"`
	Catalog        CatalogConfig        `yaml:"catalog"`
	Purchase       PurchaseConfig       `yaml:"purchase"`
	Reconcile      ReconcileConfig      `yaml:"reconcile"`
	Logging        LoggingConfig        `yaml:"logging"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT" envconfig:"SERVER_PORT" env-default:"8080" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" envconfig:"HTTP_READ_TIMEOUT" env-default:"10s" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" envconfig:"HTTP_WRITE_TIMEOUT" env-default:"45s" default:"45s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" envconfig:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s" default:"30s"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" envconfig:"DATABASE_URL"`
}

type ConnectionPoolConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS" envconfig:"MAX_OPEN_CONNS" env-default:"25" default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS" envconfig:"MAX_IDLE_CONNS" env-default:"25" default:"25"`
	MaxLifetime  time.Duration `yaml:"max_lifetime" env:"MAX_LIFETIME" envconfig:"MAX_LIFETIME" env-default:"300s" default:"300s"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" envconfig:"STORAGE_DRIVER" env-default:"postgres" default:"postgres"`
}

// RedisConfig enables distributed locks when Addr is set. Without it the
// service falls back to in-process locks, which only hold for one replica.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" envconfig:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" envconfig:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" envconfig:"REDIS_DB"`
	LockTTL  time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" envconfig:"REDIS_LOCK_TTL" env-default:"30s" default:"30s"`
	LockWait time.Duration `yaml:"lock_wait" env:"REDIS_LOCK_WAIT" envconfig:"REDIS_LOCK_WAIT" env-default:"5s" default:"5s"`
}

type BillerConfig struct {
	BaseURL   string        `yaml:"base_url" env:"BILLER_BASE_URL" envconfig:"BILLER_BASE_URL" env-default:"https://sandbox.vtpass.com" default:"https://sandbox.vtpass.com"`
	APIKey    string        `yaml:"api_key" env:"BILLER_API_KEY" envconfig:"BILLER_API_KEY"`
	PublicKey string        `yaml:"public_key" env:"BILLER_PUBLIC_KEY" envconfig:"BILLER_PUBLIC_KEY"`
	SecretKey string        `yaml:"secret_key" env:"BILLER_SECRET_KEY" envconfig:"BILLER_SECRET_KEY"`
	Timeout   time.Duration `yaml:"timeout" env:"BILLER_TIMEOUT" envconfig:"BILLER_TIMEOUT" env-default:"30s" default:"30s"`
}

type GatewayConfig struct {
	BaseURL     string        `yaml:"base_url" env:"GATEWAY_BASE_URL" envconfig:"GATEWAY_BASE_URL" env-default:"https://api.paystack.co" default:"https://api.paystack.co"`
	SecretKey   string        `yaml:"secret_key" env:"GATEWAY_SECRET_KEY" envconfig:"GATEWAY_SECRET_KEY"`
	CallbackURL string        `yaml:"callback_url" env:"GATEWAY_CALLBACK_URL" envconfig:"GATEWAY_CALLBACK_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"GATEWAY_TIMEOUT" envconfig:"GATEWAY_TIMEOUT" env-default:"15s" default:"15s"`
}

type CatalogConfig struct {
	SeedDefaults bool `yaml:"seed_defaults" env:"CATALOG_SEED_DEFAULTS" envconfig:"CATALOG_SEED_DEFAULTS" env-default:"true" default:"true"`
}

// PurchaseConfig bounds the face value of a single purchase. MaxAmount of 0
// leaves it unbounded.
type PurchaseConfig struct {
	MinAmount string `yaml:"min_amount" env:"PURCHASE_MIN_AMOUNT" envconfig:"PURCHASE_MIN_AMOUNT" env-default:"50" default:"50"`
	MaxAmount string `yaml:"max_amount" env:"PURCHASE_MAX_AMOUNT" envconfig:"PURCHASE_MAX_AMOUNT" env-default:"0" default:"0"`
}

type ReconcileConfig struct {
	Enabled    bool          `yaml:"enabled" env:"RECONCILE_ENABLED" envconfig:"RECONCILE_ENABLED" env-default:"true" default:"true"`
	Interval   time.Duration `yaml:"interval" env:"RECONCILE_INTERVAL" envconfig:"RECONCILE_INTERVAL" env-default:"1m" default:"1m"`
	StaleAfter time.Duration `yaml:"stale_after" env:"RECONCILE_STALE_AFTER" envconfig:"RECONCILE_STALE_AFTER" env-default:"10m" default:"10m"`
	BatchSize  int           `yaml:"batch_size" env:"RECONCILE_BATCH_SIZE" envconfig:"RECONCILE_BATCH_SIZE" env-default:"100" default:"100"`
	Workers    int           `yaml:"workers" env:"RECONCILE_WORKERS" envconfig:"RECONCILE_WORKERS" env-default:"4" default:"4"`
}

type LoggingConfig struct {
	Level     string `yaml:"level" env:"LOG_LEVEL" envconfig:"LOG_LEVEL" env-default:"info" default:"info"`
	Format    string `yaml:"format" env:"LOG_FORMAT" envconfig:"LOG_FORMAT" env-default:"text" default:"text"`
	AddSource bool   `yaml:"add_source" env:"LOG_ADD_SOURCE" envconfig:"LOG_ADD_SOURCE"`
}

var (
	ErrFileFormat    = errors.New("incorrect file format")
	ErrInvalidConfig = errors.New("invalid config")
)

// Load reads the file named by --config or CONFIG_PATH. YAML files are read
// by cleanenv, .env files are loaded into the environment first. Without a
// path the process environment alone is used.
func Load() (*Config, error) {
	var cfg Config

	path := fetchConfigPath()
	switch filepath.Ext(path) {
	case "":
		if path != "" {
			return nil, ErrFileFormat
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read environment: %w", err)
		}
	case ".yaml", ".yml":
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	case ".env":
		if err := godotenv.Load(path); err != nil {
			return nil, err
		}
		if err := envconfig.Process("", &cfg); err != nil {
			return nil, fmt.Errorf("cannot process environment: %w", err)
		}
	default:
		return nil, ErrFileFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StoragePostgres:
		if c.DataBase.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres driver", ErrInvalidConfig)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	lower, upper, err := c.Purchase.Limits()
	if err != nil {
		return err
	}
	if upper.IsPositive() && upper.LessThan(lower) {
		return fmt.Errorf("%w: purchase max amount %s is below min amount %s", ErrInvalidConfig, upper, lower)
	}
	return nil
}

func (p PurchaseConfig) Limits() (lower, upper decimal.Decimal, err error) {
	lower, err = parseAmount("PURCHASE_MIN_AMOUNT", p.MinAmount)
	if err != nil {
		return lower, upper, err
	}
	upper, err = parseAmount("PURCHASE_MAX_AMOUNT", p.MaxAmount)
	return lower, upper, err
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must be a non-negative amount, got %q", ErrInvalidConfig, name, raw)
	}
	return d, nil
}

func fetchConfigPath() string {
	var res string
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()
	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
