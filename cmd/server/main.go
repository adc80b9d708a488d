package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"

	"sqlgate/internal/api"
	"sqlgate/internal/app"
	"sqlgate/internal/config"
	internaldb "sqlgate/internal/db"
	"sqlgate/internal/domain"
	"sqlgate/internal/middleware"
	"sqlgate/internal/policy"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("load .env", "error", err)
		return 1
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("load config", "error", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	// Active policy: from POLICY_PATH, or permissive default.
	var activePolicy *domain.Policy
	if cfg.PolicyPath != "" {
		activePolicy, err = policy.Load(cfg.PolicyPath)
		if err != nil {
			logger.Error("load policy", "path", cfg.PolicyPath, "error", err)
			return 1
		}
		logger.Info("policy loaded", "path", cfg.PolicyPath)
	} else {
		activePolicy = (&domain.Policy{}).Normalize()
	}
	policyStore := policy.NewStore(activePolicy)

	// Real DuckDB store. Empty path keeps it in-memory for demos.
	realDB, err := sql.Open("duckdb", cfg.RealDBPath)
	if err != nil {
		logger.Error("open real store", "error", err)
		return 1
	}
	defer realDB.Close() //nolint:errcheck
	if err := app.SeedRealStore(ctx, realDB, logger.With("component", "seed")); err != nil {
		logger.Error("seed real store", "error", err)
		return 1
	}

	// SQLite audit store with hardened write/read pool split.
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.AuditDBPath, 4)
	if err != nil {
		logger.Error("open audit store", "error", err)
		return 1
	}
	defer writeDB.Close() //nolint:errcheck
	defer readDB.Close()  //nolint:errcheck

	if err := internaldb.RunMigrations(writeDB); err != nil {
		logger.Error("run audit migrations", "error", err)
		return 1
	}

	gateway, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		RealDB:  realDB,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Policy:  policyStore.Current(),
		Logger:  logger,
	})
	if err != nil {
		logger.Error("wire application", "error", err)
		return 1
	}
	defer gateway.Close() //nolint:errcheck

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	api.NewHandler(gateway, gateway.Audit, logger.With("component", "api")).RegisterRoutes(r)

	logger.Info("sqlgate listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	return 0
}
