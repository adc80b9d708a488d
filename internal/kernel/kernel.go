// Package kernel implements the execution gatekeeper: the only component
// authorized to run a statement against the real data store. Every execution
// passes through the same ordered pipeline — simulation check, episodic
// memory, row-limit quota, PII deny, governance decision, real execution,
// truncation and filtering, audit — and fails closed.
package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"sqlgate/internal/domain"
	"sqlgate/internal/governance"
)

// Request is one candidate statement submitted to the kernel, together with
// its (caller-owned, read-only) simulation result. UserInput is the optional
// natural-language prompt that produced the statement, recorded for audit.
type Request struct {
	Statement  string
	UserInput  *string
	Simulation *domain.SimulationResult
}

// Kernel is the gatekeeper state machine. It owns the episodic memory buffer
// and the audit sink handle for its lifetime; the policy snapshot it holds is
// immutable.
//
// A single Kernel instance is safe for concurrent use.
type Kernel struct {
	policy      *domain.Policy
	executor    domain.StatementExecutor
	audit       domain.AuditRepository
	memory      *governance.Memory
	logger      *slog.Logger
	execTimeout time.Duration
	now         func() time.Time
}

// New constructs a Kernel, validating the policy up front so a malformed
// policy fails at construction, never at per-request time.
func New(policy *domain.Policy, executor domain.StatementExecutor, audit domain.AuditRepository, logger *slog.Logger, execTimeout time.Duration) (*Kernel, error) {
	if policy == nil {
		return nil, domain.ErrValidation("kernel requires a policy")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if executor == nil {
		return nil, domain.ErrValidation("kernel requires a statement executor")
	}
	if audit == nil {
		return nil, domain.ErrValidation("kernel requires an audit repository")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Kernel{
		policy:      policy,
		executor:    executor,
		audit:       audit,
		memory:      governance.NewMemory(0),
		logger:      logger,
		execTimeout: execTimeout,
		now:         time.Now,
	}, nil
}

// Memory exposes the episodic buffer for inspection (tests, diagnostics).
func (k *Kernel) Memory() *governance.Memory {
	return k.memory
}

// Run takes a candidate statement through the full governed pipeline and
// returns its terminal outcome. A DENIED outcome is normal control flow, not
// an error; the returned error is non-nil only for infrastructure faults
// (audit sink unreachable) after a best-effort audit attempt.
func (k *Kernel) Run(ctx context.Context, req Request) (*domain.ExecutionOutcome, error) {
	st := stateReceived
	sim := req.Simulation

	// Step 1: an invalid simulation is denied before anything else.
	if sim == nil || !sim.Valid {
		reason := "simulation invalid"
		if sim != nil && sim.Error != nil {
			reason = fmt.Sprintf("simulation invalid: %s", *sim.Error)
		}
		st = stateDenied
		return k.deny(ctx, req, nil, nil, reason, st)
	}
	st = stateSimulationChecked

	// Step 2: remember the statement before judging it.
	k.memory.Append(req.Statement, sim, k.now())

	// Step 3: hard row quota, checked before the governance decision so a
	// masking or filtering verdict cannot bypass it.
	if k.policy.MaxRows != nil && sim.RowsReturned != nil && *sim.RowsReturned > *k.policy.MaxRows {
		st = stateDenied
		reason := fmt.Sprintf("row limit exceeded: %d > %d", *sim.RowsReturned, *k.policy.MaxRows)
		return k.deny(ctx, req, nil, nil, reason, st)
	}

	// Step 4: PII deny short-circuit. Redundant with the decision engine but
	// guarantees the denial fires before real execution regardless of later
	// branches.
	if k.policy.DenyPII && sim.HasPII() {
		st = stateDenied
		return k.deny(ctx, req, nil, nil, "policy denies access to PII data", st)
	}

	// Step 5: full governance decision plus risk and remediation for audit
	// richness.
	verdict := governance.Decide(sim, k.policy, k.memory)
	risk := governance.Score(sim, k.policy, k.memory)
	remediation := governance.Suggest(verdict, sim)
	st = statePolicyEvaluated

	if verdict.Decision == domain.DecisionDeny {
		st = stateDenied
		return k.deny(ctx, req, verdict, risk, verdict.Explanation, st)
	}

	// Filtering a write is meaningless — an UPDATE that reaches a filtering
	// verdict is denied before it can touch the real store.
	if verdict.Decision == domain.DecisionAllowWithFiltering && sim.StatementType == domain.StmtUpdate {
		st = stateDenied
		return k.deny(ctx, req, verdict, risk,
			"blocked columns cannot be filtered from an UPDATE", st)
	}

	// Step 6: the only point where persistent state changes.
	data, execErr := k.execute(ctx, req.Statement, sim.StatementType)
	if execErr != nil {
		k.logger.Warn("real execution failed",
			"statement_type", sim.StatementTypeName, "error", execErr)
		outcome := &domain.ExecutionOutcome{
			Status:      domain.StatusExecutionFailed,
			Statement:   req.Statement,
			Simulation:  sim,
			Governance:  verdict,
			Risk:        risk,
			Remediation: remediation,
			Reason:      execErr.Error(),
		}
		auditErr := k.writeAudit(ctx, req, domain.AuditExecutionFailed, execErr.Error(), risk)
		return outcome, auditErr
	}

	// Step 7: truncate against simulation/real drift. The simulated count
	// already passed the quota; the real result still must not exceed it.
	if sim.StatementType == domain.StmtSelect && k.policy.MaxRows != nil {
		data.Truncate(int(*k.policy.MaxRows))
	}

	// Step 8: post-hoc column surgery for SELECT results.
	if verdict.Decision == domain.DecisionAllowWithFiltering {
		data.FilterColumns(verdict.ColumnsToFilter)
	}
	if verdict.Decision == domain.DecisionAllowWithMasking {
		data.MaskColumns(sim.PIIColumns())
	}

	// Step 9: terminal success.
	st = stateExecuted
	k.logger.Info("statement executed",
		"state", st.String(),
		"decision", verdict.DecisionName,
		"risk_score", risk.Score)

	outcome := &domain.ExecutionOutcome{
		Status:      domain.StatusAllowed,
		Statement:   req.Statement,
		Simulation:  sim,
		Governance:  verdict,
		Risk:        risk,
		Remediation: remediation,
		Data:        data,
	}
	auditErr := k.writeAudit(ctx, req, domain.AuditAllowed, verdict.Explanation, risk)
	return outcome, auditErr
}

// execute runs the statement against the real store, bounded by the
// configured timeout so a runaway statement cannot block the kernel.
func (k *Kernel) execute(ctx context.Context, statement string, stmtType domain.StatementType) (*domain.ResultData, error) {
	if k.execTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.execTimeout)
		defer cancel()
	}

	switch stmtType {
	case domain.StmtSelect:
		cols, rows, err := k.executor.Query(ctx, statement)
		if err != nil {
			return nil, domain.ErrExecution(err, "execute query: %v", err)
		}
		return &domain.ResultData{Columns: cols, Rows: rows}, nil
	case domain.StmtUpdate:
		affected, err := k.executor.Exec(ctx, statement)
		if err != nil {
			return nil, domain.ErrExecution(err, "execute update: %v", err)
		}
		return &domain.ResultData{RowsAffected: &affected}, nil
	default:
		return nil, domain.ErrExecution(nil, "unsupported statement type %s", stmtType)
	}
}

func (k *Kernel) deny(ctx context.Context, req Request, verdict *domain.Verdict, risk *domain.RiskAssessment, reason string, st state) (*domain.ExecutionOutcome, error) {
	k.logger.Info("statement denied", "state", st.String(), "reason", reason)

	outcome := &domain.ExecutionOutcome{
		Status:     domain.StatusDenied,
		Statement:  req.Statement,
		Simulation: req.Simulation,
		Governance: verdict,
		Risk:       risk,
		Reason:     reason,
	}
	if verdict != nil && req.Simulation != nil {
		outcome.Remediation = governance.Suggest(verdict, req.Simulation)
	}
	auditErr := k.writeAudit(ctx, req, domain.AuditDenied, reason, risk)
	return outcome, auditErr
}

// writeAudit persists the terminal decision. Failures are logged and returned
// so callers can escalate, but the outcome itself stands.
func (k *Kernel) writeAudit(ctx context.Context, req Request, decision, reason string, risk *domain.RiskAssessment) error {
	entry := &domain.AuditEntry{
		ID:        domain.NewID(),
		UserInput: req.UserInput,
		Statement: req.Statement,
		Decision:  decision,
		Reason:    reason,
		CreatedAt: k.now(),
	}
	if req.Simulation != nil {
		if snapshot, err := json.Marshal(req.Simulation); err == nil {
			entry.SimulationJSON = string(snapshot)
		}
	}
	if risk != nil {
		score := int64(risk.Score)
		entry.RiskScore = &score
	}

	if err := k.audit.Insert(ctx, entry); err != nil {
		k.logger.Error("audit write failed", "decision", decision, "error", err)
		return fmt.Errorf("audit write: %w", err)
	}
	return nil
}
