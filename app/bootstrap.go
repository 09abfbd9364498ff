// Package app wires configuration, storage and handlers into one HTTP
// handler shared by the long-running server and the serverless entry.
package app

import (
	"context"
	"fmt"
	"net/http"

	"market-directory/internal/auth"
	"market-directory/internal/config"
	"market-directory/internal/db"
	"market-directory/internal/directory"
	"market-directory/internal/httpjson"
	"market-directory/internal/observability"
	"market-directory/internal/stock"
)

type Options struct {
	LoadDotEnv          bool
	MigrateByDefault    bool
	TrustProxyByDefault bool
}

type Runtime struct {
	Handler http.Handler
	Config  config.Config
	Logger  *observability.Logger
	Close   func() error
}

func Build(ctx context.Context, options Options) (*Runtime, error) {
	logger := observability.NewLogger()

	cfg, err := config.Load(config.Options{
		LoadDotEnv:          options.LoadDotEnv,
		MigrateByDefault:    options.MigrateByDefault,
		TrustProxyByDefault: options.TrustProxyByDefault,
	})
	if err != nil {
		return nil, err
	}

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		logger.Error(ctx, "init_sentry_failed", "error", err.Error())
	}

	database, err := db.Open(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		applied, err := db.RunMigrations(ctx, database)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		for _, m := range applied {
			logger.Info(ctx, "migration_applied", "version", m.Version, "path", m.Path)
		}
	}

	directoryRepo := directory.NewRepository(database)
	if cfg.DirectorySeedPath != "" {
		seeded, err := directoryRepo.SeedFromFile(ctx, cfg.DirectorySeedPath)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("seed directory: %w", err)
		}
		logger.Info(ctx, "directory_seeded",
			"path", cfg.DirectorySeedPath,
			"companies", seeded.Companies,
			"locations", seeded.Locations,
		)
	}

	hasher, err := auth.NewHasher(cfg.PasswordScheme, cfg.PBKDF2Iterations, cfg.BcryptCost)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("init password hasher: %w", err)
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := auth.NewService(auth.NewRepository(database), hasher, tokens)

	responder := httpjson.NewResponder(logger, cfg.LegacyUnauthorized)

	handler := NewRouter(Deps{
		Logger:      logger,
		Responder:   responder,
		Auth:        auth.NewHandler(authService, responder, logger),
		Tokens:      tokens,
		Limiter:     auth.NewRateLimiter(cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow),
		Directory:   directory.NewHandler(directoryRepo, responder, logger.With("component", "directory")),
		Stock:       stock.NewHandler(stock.NewGenerator(nil), responder, logger.With("component", "stock")),
		DB:          database,
		CORSOrigins: cfg.CORSAllowedOrigins,

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	return &Runtime{
		Handler: handler,
		Config:  cfg,
		Logger:  logger,
		Close: func() error {
			observability.FlushSentry()
			return database.Close()
		},
	}, nil
}
