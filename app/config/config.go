package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
	defaultServiceName     = "storefront"
)

type Config struct {
	Port            string
	DatabaseURL     string
	LogLevel        string
	SeedOnBoot      bool
	OTLPEndpoint    string
	ServiceName     string
	ShutdownTimeout time.Duration
	// AllowedOrigins lists the browser origins accepted on the websocket endpoint.
	AllowedOrigins []string
}

// TracingEnabled reports whether spans should be exported.
func (c Config) TracingEnabled() bool {
	return c.OTLPEndpoint != ""
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            orDefault(getenv("PORT"), defaultPort),
		DatabaseURL:     getenv("DATABASE_URL"),
		LogLevel:        orDefault(getenv("LOG_LEVEL"), defaultLogLevel),
		SeedOnBoot:      true,
		OTLPEndpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:     orDefault(getenv("OTEL_SERVICE_NAME"), defaultServiceName),
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if raw := getenv("SEED_ON_BOOT"); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, errors.Wrapf(err, "SEED_ON_BOOT=%q", raw)
		}
		cfg.SeedOnBoot = seed
	}

	if raw := getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, errors.Wrapf(err, "SHUTDOWN_TIMEOUT=%q", raw)
		}
		cfg.ShutdownTimeout = d
	}

	for _, origin := range strings.Split(getenv("WS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			orDefault(getenv("POSTGRES_HOST"), "localhost"),
			orDefault(getenv("POSTGRES_USER"), "postgres"),
			orDefault(getenv("POSTGRES_PASSWORD"), "postgres"),
			orDefault(getenv("POSTGRES_DB"), "storefront"),
			orDefault(getenv("POSTGRES_PORT"), "5432"),
		)
	}

	return cfg, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
