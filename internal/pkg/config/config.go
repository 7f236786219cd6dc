package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	CORS         CORSConfig
	Log          LogConfig
	JWT          JWTConfig
	Redis        RedisConfig
	AWS          AWSConfig
	Fulfillment  FulfillmentConfig
	Notification NotificationConfig
	Telemetry    TelemetryConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	// AutoMigrate applies pending migrations at startup; cmd/migrate is the usual path.
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	// LockTimeout bounds row-lock waits inside write transactions. Zero leaves the server default.
	LockTimeout time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"3s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"America/Toronto"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"-18000"` // -5*60*60
}

// Tokens are issued by the platform's auth service; this service only validates them.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	Issuer string `envconfig:"JWT_ISSUER" default:""`
}

type RedisConfig struct {
	Address  string `envconfig:"REDIS_ADDRESS" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Enabled reports whether a Redis address is configured. Without it the
// session lock falls back to an in-process lock.
func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

type AWSConfig struct {
	Region         string `envconfig:"AWS_REGION" default:"ca-central-1"`
	SESSender      string `envconfig:"AWS_SES_SENDER" default:""`
	SNSTopicARN    string `envconfig:"AWS_SNS_TOPIC_ARN" default:""`
	DisableDeliver bool   `envconfig:"AWS_DISABLE_DELIVERY" default:"false"`
}

type FulfillmentConfig struct {
	StepTimeout     time.Duration `envconfig:"FULFILLMENT_STEP_TIMEOUT" default:"5s"`
	SessionLockTTL  time.Duration `envconfig:"FULFILLMENT_SESSION_LOCK_TTL" default:"60s"`
	DefaultCurrency string        `envconfig:"FULFILLMENT_DEFAULT_CURRENCY" default:"CAD"`
	DefaultLocale   string        `envconfig:"FULFILLMENT_DEFAULT_LOCALE" default:"en"`
}

type NotificationConfig struct {
	Enabled      bool          `envconfig:"NOTIFICATION_DISPATCHER_ENABLED" default:"true"`
	PollInterval time.Duration `envconfig:"NOTIFICATION_POLL_INTERVAL" default:"5s"`
	BatchSize    int32         `envconfig:"NOTIFICATION_BATCH_SIZE" default:"20"`
	MaxAttempts  int32         `envconfig:"NOTIFICATION_MAX_ATTEMPTS" default:"5"`
	RetryBackoff time.Duration `envconfig:"NOTIFICATION_RETRY_BACKOFF" default:"30s"`
	DashboardURL string        `envconfig:"NOTIFICATION_DASHBOARD_URL" default:"http://localhost:3000"`
	BrandName    string        `envconfig:"NOTIFICATION_BRAND_NAME" default:"Lingueefy"`
}

type TelemetryConfig struct {
	ServiceName   string  `envconfig:"OTEL_SERVICE_NAME" default:"entitlement-service"`
	SampleRatio   float64 `envconfig:"OTEL_TRACES_SAMPLE_RATIO" default:"1.0"`
	EnableMetrics bool    `envconfig:"METRICS_ENABLED" default:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "America/Toronto",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: -18000,
		},
		JWT: JWTConfig{
			Secret: "test-secret-key-for-entitlement-service",
		},
		AWS: AWSConfig{
			Region:         "ca-central-1",
			SESSender:      "no-reply@example.com",
			DisableDeliver: true,
		},
		Fulfillment: FulfillmentConfig{
			StepTimeout:     5 * time.Second,
			SessionLockTTL:  30 * time.Second,
			DefaultCurrency: "CAD",
			DefaultLocale:   "en",
		},
		Notification: NotificationConfig{
			Enabled:      false,
			PollInterval: time.Second,
			BatchSize:    10,
			MaxAttempts:  3,
			RetryBackoff: time.Second,
			DashboardURL: "http://localhost:3000",
			BrandName:    "Lingueefy",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "entitlement-service-test",
			SampleRatio: 0,
		},
	}
}
