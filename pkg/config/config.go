package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "ORDERING"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "ORDERING_APP_ENV"
	EnvPort            = "ORDERING_APP_PORT"
	EnvLogLevel        = "ORDERING_LOG_LEVEL"
	EnvLogFormat       = "ORDERING_LOG_FORMAT"
	EnvCORSOrigins     = "ORDERING_CORS_ORIGINS"
	EnvQuantityDefault = "ORDERING_QUANTITY_DEFAULT"
	EnvQuantityMin     = "ORDERING_QUANTITY_MIN"
	EnvQuantityMax     = "ORDERING_QUANTITY_MAX"
	EnvDeliveryFee     = "ORDERING_CART_DELIVERY_FEE"
	EnvCatalogSource   = "ORDERING_CATALOG_SOURCE"
	EnvCatalogPath     = "ORDERING_CATALOG_PATH"
	EnvCatalogBaseURL  = "ORDERING_CATALOG_BASE_URL"
	EnvOrdersSink      = "ORDERING_ORDERS_SINK"
	EnvOrdersBaseURL   = "ORDERING_ORDERS_BASE_URL"
	EnvOrdersProjectID = "ORDERING_ORDERS_PUBSUB_PROJECT_ID"
	EnvOrdersTopic     = "ORDERING_ORDERS_PUBSUB_TOPIC"
	EnvRedisURL        = "ORDERING_REDIS_URL"
	EnvIdempotencyTTL  = "ORDERING_IDEMPOTENCY_TTL"
	EnvSessionIdleTTL  = "ORDERING_SESSION_IDLE_TTL"
	EnvSessionSweep    = "ORDERING_SESSION_SWEEP_INTERVAL"

	CatalogSourceFile = "file"
	CatalogSourceHTTP = "http"

	OrdersSinkHTTP   = "http"
	OrdersSinkPubSub = "pubsub"
	OrdersSinkLog    = "log"

	defaultDeliveryFee = "20"
)

type Config struct {
	App         AppConfig
	Quantity    QuantityConfig
	Cart        CartConfig
	Catalog     CatalogConfig
	Orders      OrdersConfig
	Redis       RedisConfig
	Idempotency IdempotencyConfig
	Session     SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERING_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERING_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ORDERING_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ORDERING_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ORDERING_LOG_WARN_STACK" default:"false"`
	// CORSOrigins lists the browser origins allowed to drive the widget API.
	CORSOrigins []string `envconfig:"ORDERING_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// QuantityConfig mirrors the amount widget settings shared by product cards and cart lines.
type QuantityConfig struct {
	Default int `envconfig:"ORDERING_QUANTITY_DEFAULT" default:"1"`
	Min     int `envconfig:"ORDERING_QUANTITY_MIN" default:"1"`
	Max     int `envconfig:"ORDERING_QUANTITY_MAX" default:"9"`
}

type CartConfig struct {
	DeliveryFee string `envconfig:"ORDERING_CART_DELIVERY_FEE" default:"20"`
}

// DeliveryFeeAmount parses the configured flat fee.
func (c CartConfig) DeliveryFeeAmount() (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.DeliveryFee)
	if raw == "" {
		raw = defaultDeliveryFee
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", EnvDeliveryFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be non-negative", EnvDeliveryFee)
	}
	return fee, nil
}

type CatalogConfig struct {
	Source       string        `envconfig:"ORDERING_CATALOG_SOURCE" default:"file"`
	Path         string        `envconfig:"ORDERING_CATALOG_PATH" default:"data/catalog.json"`
	BaseURL      string        `envconfig:"ORDERING_CATALOG_BASE_URL"`
	ProductsPath string        `envconfig:"ORDERING_CATALOG_PRODUCTS_PATH" default:"products"`
	FetchTimeout time.Duration `envconfig:"ORDERING_CATALOG_FETCH_TIMEOUT" default:"10s"`
}

type OrdersConfig struct {
	Sink            string        `envconfig:"ORDERING_ORDERS_SINK" default:"log"`
	BaseURL         string        `envconfig:"ORDERING_ORDERS_BASE_URL"`
	OrdersPath      string        `envconfig:"ORDERING_ORDERS_PATH" default:"orders"`
	SubmitTimeout   time.Duration `envconfig:"ORDERING_ORDERS_SUBMIT_TIMEOUT" default:"10s"`
	PubSubProjectID string        `envconfig:"ORDERING_ORDERS_PUBSUB_PROJECT_ID"`
	PubSubTopic     string        `envconfig:"ORDERING_ORDERS_PUBSUB_TOPIC"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERING_REDIS_URL"`
	Address      string        `envconfig:"ORDERING_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERING_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"ORDERING_IDEMPOTENCY_TTL" default:"24h"`
}

// SessionConfig bounds how long an untouched session and its in-progress
// configurations stay in memory.
type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"ORDERING_SESSION_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"ORDERING_SESSION_SWEEP_INTERVAL" default:"1m"`
}

func (c *Config) validate() error {
	q := c.Quantity
	if q.Min > q.Max {
		return fmt.Errorf("%s (%d) must not exceed %s (%d)", EnvQuantityMin, q.Min, EnvQuantityMax, q.Max)
	}
	if q.Default < q.Min || q.Default > q.Max {
		return fmt.Errorf("%s (%d) must be within [%d, %d]", EnvQuantityDefault, q.Default, q.Min, q.Max)
	}
	if _, err := c.Cart.DeliveryFeeAmount(); err != nil {
		return err
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionIdleTTL)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionSweep)
	}

	switch strings.ToLower(c.Catalog.Source) {
	case CatalogSourceFile:
		if strings.TrimSpace(c.Catalog.Path) == "" {
			return fmt.Errorf("%s is required for file catalogs", EnvCatalogPath)
		}
	case CatalogSourceHTTP:
		if strings.TrimSpace(c.Catalog.BaseURL) == "" {
			return fmt.Errorf("%s is required for http catalogs", EnvCatalogBaseURL)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCatalogSource, c.Catalog.Source)
	}

	switch strings.ToLower(c.Orders.Sink) {
	case OrdersSinkLog:
	case OrdersSinkHTTP:
		if strings.TrimSpace(c.Orders.BaseURL) == "" {
			return fmt.Errorf("%s is required for http order sinks", EnvOrdersBaseURL)
		}
	case OrdersSinkPubSub:
		if strings.TrimSpace(c.Orders.PubSubProjectID) == "" || strings.TrimSpace(c.Orders.PubSubTopic) == "" {
			return fmt.Errorf("%s and %s are required for pubsub order sinks", EnvOrdersProjectID, EnvOrdersTopic)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvOrdersSink, c.Orders.Sink)
	}
	return nil
}
