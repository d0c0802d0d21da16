package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	Stripe    StripeSettings    `mapstructure:"stripe"`
	Mailer    MailerSettings    `mapstructure:"mailer"`
	OTP       OTPSettings       `mapstructure:"otp"`
	Auth      AuthSettings      `mapstructure:"auth"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

type AppSettings struct {
	Name           string   `mapstructure:"name"`
	Env            string   `mapstructure:"env"`
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	Migrate           bool          `mapstructure:"migrate"`
}

// RedisSettings configures Redis connection, locking, and TLS.
type RedisSettings struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	DB         int           `mapstructure:"db"`
	Password   string        `mapstructure:"password"`
	TLSEnabled bool          `mapstructure:"tls_enabled"`
	LockPrefix string        `mapstructure:"lock_prefix"`
	LockTTL    time.Duration `mapstructure:"lock_ttl"`
}

// KafkaSettings configures the Kafka producer. An empty broker list
// selects the logging stub publisher.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// StripeSettings captures the payment gateway credentials and the static
// (plan, frequency) -> price identifier mapping.
type StripeSettings struct {
	APIBaseURL         string            `mapstructure:"api_base_url"`
	SecretKey          string            `mapstructure:"secret_key"`
	WebhookSecret      string            `mapstructure:"webhook_secret"`
	SignatureTolerance time.Duration     `mapstructure:"signature_tolerance"`
	SuccessURL         string            `mapstructure:"success_url"`
	CancelURL          string            `mapstructure:"cancel_url"`
	RequestTimeout     time.Duration     `mapstructure:"request_timeout"`
	PriceIDs           map[string]string `mapstructure:"price_ids"`
}

// PriceID resolves the gateway price reference for a plan/frequency pair.
func (s StripeSettings) PriceID(plan, frequency string) (string, bool) {
	id, ok := s.PriceIDs[fmt.Sprintf("%s_%s", plan, frequency)]
	return id, ok && id != ""
}

// MailerSettings configures the outbound email relay API.
type MailerSettings struct {
	APIURL         string        `mapstructure:"api_url"`
	APISecret      string        `mapstructure:"api_secret"`
	SenderName     string        `mapstructure:"sender_name"`
	SenderEmail    string        `mapstructure:"sender_email"`
	TemplateID     string        `mapstructure:"template_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// OTPSettings configures code generation and the validity window.
type OTPSettings struct {
	CodeLength int           `mapstructure:"code_length"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// AuthSettings configures password login token issuance.
type AuthSettings struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// RateLimitSettings configures rate limiting windows and max attempts per endpoint.
type RateLimitSettings struct {
	WindowDuration      time.Duration `mapstructure:"window_duration"`
	RegisterMaxAttempts int           `mapstructure:"register_max_attempts"`
	VerifyMaxAttempts   int           `mapstructure:"verify_max_attempts"`
	LoginMaxAttempts    int           `mapstructure:"login_max_attempts"`
}

type TelemetrySettings struct {
	MetricsNamespace string `mapstructure:"metrics_namespace"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("SUMMIT")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.allowed_origins",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"postgres.migrate",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.lock_prefix",
		"redis.lock_ttl",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"stripe.api_base_url",
		"stripe.secret_key",
		"stripe.webhook_secret",
		"stripe.signature_tolerance",
		"stripe.success_url",
		"stripe.cancel_url",
		"stripe.request_timeout",
		"mailer.api_url",
		"mailer.api_secret",
		"mailer.sender_name",
		"mailer.sender_email",
		"mailer.template_id",
		"mailer.request_timeout",
		"otp.code_length",
		"otp.ttl",
		"auth.jwt_secret",
		"auth.access_token_ttl",
		"rate_limit.window_duration",
		"rate_limit.register_max_attempts",
		"rate_limit.verify_max_attempts",
		"rate_limit.login_max_attempts",
		"telemetry.metrics_namespace",
	}); err != nil {
		return nil, err
	}

	// Price ids come from individual env vars (SUMMIT_STRIPE_PRICE_ID_LIGHT_MONTHLY etc.)
	// or a config file; viper merges whichever is present.
	for _, plan := range []string{"free", "light", "standard", "pro"} {
		for _, freq := range []string{"monthly", "yearly"} {
			key := fmt.Sprintf("stripe.price_ids.%s_%s", plan, freq)
			if err := v.BindEnv(key, fmt.Sprintf("SUMMIT_STRIPE_PRICE_ID_%s_%s", strings.ToUpper(plan), strings.ToUpper(freq))); err != nil {
				return nil, fmt.Errorf("bind env for %s: %w", key, err)
			}
		}
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "summit-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.allowed_origins", []string{"*"})

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.database", "summit_db")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")
	v.SetDefault("postgres.migrate", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.lock_prefix", "summit:lock")
	v.SetDefault("redis.lock_ttl", "30s")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "summit")
	v.SetDefault("kafka.async", true)

	v.SetDefault("stripe.api_base_url", "https://api.stripe.com")
	v.SetDefault("stripe.signature_tolerance", "5m")
	v.SetDefault("stripe.success_url", "https://summit.guide")
	v.SetDefault("stripe.cancel_url", "https://summit.guide/cancel")
	v.SetDefault("stripe.request_timeout", "15s")

	v.SetDefault("mailer.sender_name", "Summit")
	v.SetDefault("mailer.template_id", "kn0hHMisavgApISFQZnsh")
	v.SetDefault("mailer.request_timeout", "10s")

	v.SetDefault("otp.code_length", 6)
	v.SetDefault("otp.ttl", "20m")

	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("rate_limit.window_duration", "1m")
	v.SetDefault("rate_limit.register_max_attempts", 3)
	v.SetDefault("rate_limit.verify_max_attempts", 5)
	v.SetDefault("rate_limit.login_max_attempts", 5)

	v.SetDefault("telemetry.metrics_namespace", "summit")
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "SUMMIT_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
