// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"market-directory/internal/auth"
)

type Config struct {
	Port      string
	AppEnv    string
	SentryDSN string

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	RunMigrations     bool
	DirectorySeedPath string

	JWTSecret           string
	AccessTokenTTL      time.Duration
	PasswordScheme      string
	PBKDF2Iterations    int
	BcryptCost          int
	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration

	CORSAllowedOrigins []string
	LegacyUnauthorized bool
	ShutdownTimeout    time.Duration

	// TrustProxyHeaders lets X-Forwarded-For and friends decide the client
	// address. Only safe behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

type Options struct {
	LoadDotEnv bool
	// MigrateByDefault is used when RUN_MIGRATIONS is unset.
	MigrateByDefault bool
	// TrustProxyByDefault is used when TRUST_PROXY_HEADERS is unset.
	TrustProxyByDefault bool
}

func Load(options Options) (Config, error) {
	if options.LoadDotEnv {
		_ = godotenv.Load()
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:      envOrDefault("PORT", "8080"),
		AppEnv:    envOrDefault("APP_ENV", "development"),
		SentryDSN: strings.TrimSpace(os.Getenv("SENTRY_DSN")),

		DatabaseURL:       databaseURL,
		DBMaxOpenConns:    envIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    envIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: envMinutesOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		DBConnMaxIdleTime: envMinutesOrDefault("DB_CONN_MAX_IDLE_TIME_MINUTES", 10),
		RunMigrations:     envBoolOrDefault("RUN_MIGRATIONS", options.MigrateByDefault),
		DirectorySeedPath: strings.TrimSpace(os.Getenv("DIRECTORY_SEED_PATH")),

		JWTSecret:           jwtSecret,
		AccessTokenTTL:      envMinutesOrDefault("ACCESS_TOKEN_TTL_MINUTES", 60),
		PasswordScheme:      strings.ToLower(envOrDefault("PASSWORD_HASH_SCHEME", auth.SchemePBKDF2)),
		PBKDF2Iterations:    envIntOrDefault("PBKDF2_ITERATIONS", 600000),
		BcryptCost:          envIntOrDefault("BCRYPT_COST", bcrypt.DefaultCost),
		AuthRateLimitMax:    envIntOrDefault("AUTH_RATE_LIMIT_MAX", 10),
		AuthRateLimitWindow: envSecondsOrDefault("AUTH_RATE_LIMIT_WINDOW_SECONDS", 60),

		CORSAllowedOrigins: envListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LegacyUnauthorized: envBoolOrDefault("LEGACY_UNAUTHORIZED_STATUS", false),
		ShutdownTimeout:    envSecondsOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 10),

		TrustProxyHeaders: envBoolOrDefault("TRUST_PROXY_HEADERS", options.TrustProxyByDefault),
	}

	switch cfg.PasswordScheme {
	case auth.SchemePBKDF2, auth.SchemeBcrypt:
	default:
		return Config{}, fmt.Errorf("unsupported PASSWORD_HASH_SCHEME: %s", cfg.PasswordScheme)
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return cfg, nil
}

func mustEnv(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("missing required env: %s", name)
	}
	return value, nil
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envMinutesOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Minute
}

func envSecondsOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Second
}

func envBoolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if value == "" {
		return fallback
	}

	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envListOrDefault(name string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
