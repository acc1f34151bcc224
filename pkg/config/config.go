package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "tumblera"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Pricing      PricingConfig
	Supabase     SupabaseConfig
	EmailJS      EmailJSConfig
	Seller       SellerConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Media        MediaConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Supabase.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TUMBLERA_APP_ENV" required:"true"`
	Port         string `envconfig:"TUMBLERA_APP_PORT" required:"true"`
	SiteOrigin   string `envconfig:"TUMBLERA_SITE_ORIGIN" default:"https://tumblera.shop"`
	LogLevel     string `envconfig:"TUMBLERA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TUMBLERA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TUMBLERA_DB_DSN"`
	Driver string `envconfig:"TUMBLERA_DB_DRIVER" default:"postgres"`

	SQLitePath string `envconfig:"TUMBLERA_SQLITE_PATH" default:"tumblera.db"`

	MaxOpenConns    int           `envconfig:"TUMBLERA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TUMBLERA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TUMBLERA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TUMBLERA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		if d.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when sqlite is enabled")
		}
		return nil
	}
	if d.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TUMBLERA_REDIS_URL"`
	Address      string        `envconfig:"TUMBLERA_REDIS_ADDR"`
	Password     string        `envconfig:"TUMBLERA_REDIS_PASSWORD"`
	DB           int           `envconfig:"TUMBLERA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TUMBLERA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TUMBLERA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TUMBLERA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TUMBLERA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TUMBLERA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TUMBLERA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TUMBLERA_JWT_ISSUER" default:"tumblera"`
	ExpirationMinutes int    `envconfig:"TUMBLERA_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TUMBLERA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TUMBLERA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TUMBLERA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TUMBLERA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TUMBLERA_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig carries the order-level money knobs. Per-size unit prices are
// a fixed table in the design package, not configuration.
type PricingConfig struct {
	ShippingFee int    `envconfig:"TUMBLERA_SHIPPING_FEE" default:"5"`
	Currency    string `envconfig:"TUMBLERA_CURRENCY_SYMBOL" default:"₱"`
}

// SupabaseConfig points at the hosted backend used as the remote data store.
type SupabaseConfig struct {
	URL           string        `envconfig:"TUMBLERA_SUPABASE_URL" required:"true"`
	AnonKey       string        `envconfig:"TUMBLERA_SUPABASE_ANON_KEY" required:"true"`
	StorageBucket string        `envconfig:"TUMBLERA_SUPABASE_STORAGE_BUCKET" default:"designs"`
	Timeout       time.Duration `envconfig:"TUMBLERA_SUPABASE_TIMEOUT" default:"15s"`
}

func (s SupabaseConfig) validate() error {
	if s.URL == "" {
		return nil
	}
	if _, err := url.Parse(s.URL); err != nil {
		return fmt.Errorf("invalid supabase url: %w", err)
	}
	return nil
}

// EmailJSConfig configures the hosted email-send API used for order
// confirmations. Sends are best-effort; nothing here gates checkout.
type EmailJSConfig struct {
	APIBase          string        `envconfig:"TUMBLERA_EMAILJS_API_BASE" default:"https://api.emailjs.com"`
	PublicKey        string        `envconfig:"TUMBLERA_EMAILJS_PUBLIC_KEY"`
	ServiceID        string        `envconfig:"TUMBLERA_EMAILJS_SERVICE_ID"`
	OrderTemplateID  string        `envconfig:"TUMBLERA_EMAILJS_ORDER_TEMPLATE_ID"`
	SellerTemplateID string        `envconfig:"TUMBLERA_EMAILJS_SELLER_TEMPLATE_ID" default:"seller_notification_template"`
	SupportEmail     string        `envconfig:"TUMBLERA_SUPPORT_EMAIL" default:"support@tumblera.com"`
	CompanyName      string        `envconfig:"TUMBLERA_COMPANY_NAME" default:"Tumblera"`
	Timeout          time.Duration `envconfig:"TUMBLERA_EMAILJS_TIMEOUT" default:"10s"`
}

// Enabled reports whether enough credentials are present to attempt sends.
func (e EmailJSConfig) Enabled() bool {
	return e.PublicKey != "" && e.ServiceID != "" && e.OrderTemplateID != ""
}

// SellerConfig provisions the single seller account. The password arrives as
// an argon2id hash so the plaintext never lives in the environment.
type SellerConfig struct {
	Email        string `envconfig:"TUMBLERA_SELLER_EMAIL" required:"true"`
	PasswordHash string `envconfig:"TUMBLERA_SELLER_PASSWORD_HASH" required:"true"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"TUMBLERA_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"TUMBLERA_PUBSUB_ORDERS_TOPIC" default:"tumblera-order-events"`
	OrdersSubscription string `envconfig:"TUMBLERA_PUBSUB_ORDERS_SUBSCRIPTION"`
}

// Enabled reports whether eventing is configured; without a project the
// checkout flow skips publishing and emails are simply not sent.
func (p PubSubConfig) Enabled(gcp GCPConfig) bool {
	return gcp.ProjectID != "" && p.OrdersTopic != ""
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"TUMBLERA_MAX_UPLOAD_MB" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TUMBLERA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TUMBLERA_AUTO_MIGRATE" default:"false"`
}
