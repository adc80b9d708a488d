// Package app provides application-level wiring and dependency injection
// for the sqlgate gateway.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"sqlgate/internal/config"
	"sqlgate/internal/db/repository"
	"sqlgate/internal/domain"
	"sqlgate/internal/kernel"
	"sqlgate/internal/sandbox"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the active policy.
type Deps struct {
	Cfg     *config.Config
	RealDB  *sql.DB // persistent DuckDB store
	WriteDB *sql.DB // SQLite audit store, write pool
	ReadDB  *sql.DB // SQLite audit store, read pool
	Policy  *domain.Policy
	Logger  *slog.Logger
}

// App holds the fully-wired gateway: sandbox simulator, execution kernel,
// and the audit repository needed by the listing endpoint.
type App struct {
	Simulator *sandbox.Simulator
	Kernel    *kernel.Kernel
	Audit     domain.AuditRepository
}

// New wires the sandbox, executor, kernel, and audit repository from the
// provided deps. The sandbox is seeded once here with synthetic rows
// mirroring the real schema.
func New(ctx context.Context, deps Deps) (*App, error) {
	auditRepo := repository.NewAuditRepo(deps.WriteDB, deps.ReadDB)

	sim, err := sandbox.Open(ctx, sandbox.DefaultSchema(), deps.Cfg.SandboxSeedRows,
		deps.Logger.With("component", "sandbox"))
	if err != nil {
		return nil, fmt.Errorf("open sandbox: %w", err)
	}

	executor := kernel.NewDuckDBExecutor(deps.RealDB)
	k, err := kernel.New(deps.Policy, executor, auditRepo,
		deps.Logger.With("component", "kernel"), deps.Cfg.ExecTimeout)
	if err != nil {
		_ = sim.Close()
		return nil, fmt.Errorf("build kernel: %w", err)
	}

	return &App{
		Simulator: sim,
		Kernel:    k,
		Audit:     auditRepo,
	}, nil
}

// Run drives the full pipeline for one statement: sandbox simulation
// followed by the kernel's governed execution.
func (a *App) Run(ctx context.Context, userInput *string, statement string) (*domain.ExecutionOutcome, error) {
	sim := a.Simulator.Simulate(ctx, statement)
	return a.Kernel.Run(ctx, kernel.Request{
		Statement:  statement,
		UserInput:  userInput,
		Simulation: sim,
	})
}

// Simulate dry-runs a statement against the sandbox without touching the
// real store or the audit log.
func (a *App) Simulate(ctx context.Context, statement string) *domain.SimulationResult {
	return a.Simulator.Simulate(ctx, statement)
}

// Close releases the sandbox database.
func (a *App) Close() error {
	return a.Simulator.Close()
}
