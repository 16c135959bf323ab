package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Booking  Booking  `envconfig:"BOOKING"`
	Consent  Consent  `envconfig:"CONSENT"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Host     string `envconfig:"HOST"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name     string `envconfig:"NAME"     default:"termin"`
	Timezone string `envconfig:"TIMEZONE" default:"Europe/Berlin"`
	CORS     struct {
		AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
		AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
		AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
		AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
		Enable           bool     `envconfig:"ENABLE"`
		MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
	} `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
	// APIKey, when set, must accompany every /v1 request.
	APIKey string `envconfig:"API_KEY"`
}

// Booking holds the fallbacks used when the settings table has no policy row.
type Booking struct {
	MinLeadMinutes       int  `envconfig:"MIN_LEAD_MINUTES"      default:"60"`
	MaxLeadDays          int  `envconfig:"MAX_LEAD_DAYS"         default:"30"`
	NotificationsEnabled bool `envconfig:"NOTIFICATIONS_ENABLED" default:"true"`
}

type Consent struct {
	CookieName   string `envconfig:"COOKIE_NAME"  default:"termin_consent"`
	HashKey      string `envconfig:"HASH_KEY"`
	BlockKey     string `envconfig:"BLOCK_KEY"`
	MaxAgeDays   int    `envconfig:"MAX_AGE_DAYS" default:"365"`
	SecureCookie bool   `envconfig:"SECURE_COOKIE"`
}

type Cache struct {
	Redis struct {
		Primary RedisEndpoint `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	TTL int `envconfig:"TTL" default:"300"`
}

type RedisEndpoint struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type JWT struct {
	AccessSecret     string `envconfig:"ACCESS_SECRET"`
	RefreshSecret    string `envconfig:"REFRESH_SECRET"`
	AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
	RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
}

type DB struct {
	Postgres struct {
		MaxRetry               int    `envconfig:"MAX_RETRY"       default:"5"`
		RetryWaitTime          int    `envconfig:"RETRY_WAIT_TIME" default:"2"`
		MaxOpenConns           int    `envconfig:"MAX_OPEN_CONNS"  default:"10"`
		MaxIdleConns           int    `envconfig:"MAX_IDLE_CONNS"  default:"10"`
		ConnMaxLifetimeMinutes int    `envconfig:"CONN_MAX_LIFETIME_MINUTES"`
		MigrationTable         string `envconfig:"MIGRATION_TABLE"`
		MigrationPath          string `envconfig:"MIGRATION_PATH" default:"file://migrations/postgres"`
		// Prefix is prepended to both database names, e.g. for per-branch databases.
		Prefix string           `envconfig:"PREFIX"`
		Read   PostgresEndpoint `envconfig:"READ"`
		Write  PostgresEndpoint `envconfig:"WRITE"`
	} `envconfig:"POSTGRES"`
}

type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Kafka struct {
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"termin-notifier"`
	SASL          struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
	Topics struct {
		Notification string `envconfig:"NOTIFICATION" default:"termin.booking.events"`
	} `envconfig:"TOPICS"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
	S3 struct {
		BucketName      string `envconfig:"BUCKET_NAME"`
		APIEndpoint     string `envconfig:"API_ENDPOINT"`
		PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		Region          string `envconfig:"REGION" default:"auto"`
	} `envconfig:"S3"`
}

// Load reads the process environment into a fresh Config.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}

	return &cfg, nil
}

var (
	conf *Config
	once sync.Once
)

// Init loads .env when present, then the environment. Later calls are no-ops.
func Init() error {
	var err error

	once.Do(func() {
		if loadErr := godotenv.Load(".env"); loadErr != nil {
			log.Warn().Err(loadErr).Msg("Could not load .env file, continuing with existing environment variables")
		}

		conf, err = Load()
		if err != nil {
			return
		}

		log.Info().Str("app", conf.App.Name).Str("env", conf.Server.Env).Msg("Configuration loaded")
	})

	return err
}

func Get() *Config {
	if err := Init(); err != nil || conf == nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return conf
}
