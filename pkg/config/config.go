package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DELIVERYPRO"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	Restaurant   RestaurantConfig
	ImageGen     ImageGenConfig
	Session      SessionConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DELIVERYPRO_APP_ENV" default:"development"`
	Port         string `envconfig:"DELIVERYPRO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DELIVERYPRO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DELIVERYPRO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// Driver selects the GORM dialector. The demo deployment runs on an
	// in-memory SQLite database so the process boots with zero external
	// services and all state is lost on restart.
	Driver string `envconfig:"DELIVERYPRO_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"DELIVERYPRO_DB_DSN" default:"file::memory:?cache=shared"`

	MaxOpenConns    int           `envconfig:"DELIVERYPRO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DELIVERYPRO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DELIVERYPRO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DELIVERYPRO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

func (db DBConfig) validate() error {
	switch db.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

type RedisConfig struct {
	// URL is optional: when empty the platform falls back to an in-process
	// store so the mocked stack has no hard external dependency.
	URL          string        `envconfig:"DELIVERYPRO_REDIS_URL"`
	PoolSize     int           `envconfig:"DELIVERYPRO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DELIVERYPRO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DELIVERYPRO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELIVERYPRO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DELIVERYPRO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DELIVERYPRO_JWT_SECRET" default:"deliverypro-demo-secret"`
	Issuer            string `envconfig:"DELIVERYPRO_JWT_ISSUER" default:"deliverypro"`
	ExpirationMinutes int    `envconfig:"DELIVERYPRO_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the configured token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CheckoutConfig struct {
	DeliveryFeeCents  int           `envconfig:"DELIVERYPRO_CHECKOUT_DELIVERY_FEE_CENTS" default:"590"`
	SubmitLatency     time.Duration `envconfig:"DELIVERYPRO_CHECKOUT_SUBMIT_LATENCY" default:"2s"`
	AuthLatency       time.Duration `envconfig:"DELIVERYPRO_AUTH_SIMULATED_LATENCY" default:"1500ms"`
	ChatReplyLatency  time.Duration `envconfig:"DELIVERYPRO_CHAT_REPLY_LATENCY" default:"2s"`
	MinOrderCents     int           `envconfig:"DELIVERYPRO_CHECKOUT_MIN_ORDER_CENTS" default:"2500"`
	FreeDeliveryCents int           `envconfig:"DELIVERYPRO_CHECKOUT_FREE_DELIVERY_CENTS" default:"0"`
}

type RestaurantConfig struct {
	Name         string  `envconfig:"DELIVERYPRO_RESTAURANT_NAME" default:"Pizzaria Demo"`
	Description  string  `envconfig:"DELIVERYPRO_RESTAURANT_DESCRIPTION" default:"A melhor pizzaria da região! Massa artesanal, ingredientes frescos e sabores únicos."`
	Phone        string  `envconfig:"DELIVERYPRO_RESTAURANT_PHONE" default:"(11) 99999-9999"`
	Address      string  `envconfig:"DELIVERYPRO_RESTAURANT_ADDRESS" default:"Rua das Flores, 123 - Vila Madalena, São Paulo - SP"`
	DeliveryTime string  `envconfig:"DELIVERYPRO_RESTAURANT_DELIVERY_TIME" default:"30-45 min"`
	Rating       float64 `envconfig:"DELIVERYPRO_RESTAURANT_RATING" default:"4.8"`
	ReviewCount  int     `envconfig:"DELIVERYPRO_RESTAURANT_REVIEW_COUNT" default:"1247"`
	Open         bool    `envconfig:"DELIVERYPRO_RESTAURANT_OPEN" default:"true"`
}

type ImageGenConfig struct {
	GatewayURL string        `envconfig:"DELIVERYPRO_IMAGEGEN_GATEWAY_URL" default:"https://ai.gateway.lovable.dev/v1/chat/completions"`
	APIKey     string        `envconfig:"DELIVERYPRO_IMAGEGEN_API_KEY"`
	Model      string        `envconfig:"DELIVERYPRO_IMAGEGEN_MODEL" default:"google/gemini-2.5-flash-image-preview"`
	Timeout    time.Duration `envconfig:"DELIVERYPRO_IMAGEGEN_TIMEOUT" default:"30s"`
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"DELIVERYPRO_SESSION_TTL" default:"4h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"DELIVERYPRO_AUTO_MIGRATE" default:"true"`
	SeedDemoData bool `envconfig:"DELIVERYPRO_SEED_DEMO_DATA" default:"true"`
}
