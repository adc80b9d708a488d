package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlgate/internal/domain"
	"sqlgate/internal/testutil"
)

// === Mocks ===

type mockGateway struct {
	runFn      func(ctx context.Context, userInput *string, statement string) (*domain.ExecutionOutcome, error)
	simulateFn func(ctx context.Context, statement string) *domain.SimulationResult
}

func (m *mockGateway) Run(ctx context.Context, userInput *string, statement string) (*domain.ExecutionOutcome, error) {
	if m.runFn == nil {
		panic("mockGateway.Run called but not configured")
	}
	return m.runFn(ctx, userInput, statement)
}

func (m *mockGateway) Simulate(ctx context.Context, statement string) *domain.SimulationResult {
	if m.simulateFn == nil {
		panic("mockGateway.Simulate called but not configured")
	}
	return m.simulateFn(ctx, statement)
}

var _ Gateway = (*mockGateway)(nil)

// === Test helpers ===

func newTestRouter(gateway Gateway, audit domain.AuditRepository) chi.Router {
	r := chi.NewRouter()
	NewHandler(gateway, audit, slog.Default()).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// === /v1/query ===

func TestRunQuery_Allowed(t *testing.T) {
	gateway := &mockGateway{
		runFn: func(_ context.Context, userInput *string, statement string) (*domain.ExecutionOutcome, error) {
			require.NotNil(t, userInput)
			assert.Equal(t, "show ids", *userInput)
			assert.Equal(t, "SELECT id FROM customers", statement)
			return &domain.ExecutionOutcome{
				Status:    domain.StatusAllowed,
				Statement: statement,
				Data: &domain.ResultData{
					Columns: []string{"id"},
					Rows:    [][]interface{}{{1}, {2}},
				},
			}, nil
		},
	}
	r := newTestRouter(gateway, &testutil.MockAuditRepo{})

	rec := doJSON(t, r, http.MethodPost, "/v1/query", map[string]interface{}{
		"user_input": "show ids",
		"statement":  "SELECT id FROM customers",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var outcome domain.ExecutionOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, domain.StatusAllowed, outcome.Status)
	require.NotNil(t, outcome.Data)
	assert.Equal(t, []string{"id"}, outcome.Data.Columns)
}

func TestRunQuery_DeniedIsStillHTTP200(t *testing.T) {
	gateway := &mockGateway{
		runFn: func(_ context.Context, _ *string, statement string) (*domain.ExecutionOutcome, error) {
			return &domain.ExecutionOutcome{
				Status:    domain.StatusDenied,
				Statement: statement,
				Reason:    "policy denies access to PII data",
			}, nil
		},
	}
	r := newTestRouter(gateway, &testutil.MockAuditRepo{})

	rec := doJSON(t, r, http.MethodPost, "/v1/query", map[string]interface{}{
		"statement": "SELECT ssn FROM customers",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var outcome domain.ExecutionOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, domain.StatusDenied, outcome.Status)
	assert.Contains(t, outcome.Reason, "PII")
}

func TestRunQuery_MissingStatement(t *testing.T) {
	r := newTestRouter(&mockGateway{}, &testutil.MockAuditRepo{})

	rec := doJSON(t, r, http.MethodPost, "/v1/query", map[string]interface{}{
		"statement": "   ",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunQuery_InvalidJSON(t *testing.T) {
	r := newTestRouter(&mockGateway{}, &testutil.MockAuditRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunQuery_AuditSinkFaultIs500(t *testing.T) {
	gateway := &mockGateway{
		runFn: func(_ context.Context, _ *string, statement string) (*domain.ExecutionOutcome, error) {
			return &domain.ExecutionOutcome{Status: domain.StatusAllowed, Statement: statement},
				domain.ErrExecution(nil, "audit write: sink unreachable")
		},
	}
	r := newTestRouter(gateway, &testutil.MockAuditRepo{})

	rec := doJSON(t, r, http.MethodPost, "/v1/query", map[string]interface{}{
		"statement": "SELECT 1",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// === /v1/simulate ===

func TestSimulateQuery(t *testing.T) {
	gateway := &mockGateway{
		simulateFn: func(_ context.Context, statement string) *domain.SimulationResult {
			assert.Equal(t, "SELECT email FROM customers", statement)
			rows := uint64(20)
			return &domain.SimulationResult{
				Valid:             true,
				StatementType:     domain.StmtSelect,
				StatementTypeName: "SELECT",
				TablesAccessed:    []string{"CUSTOMERS"},
				ColumnsAccessed:   []string{"email"},
				ColumnClassification: map[string]domain.Category{
					"email": domain.CategoryPII,
				},
				RowsReturned: &rows,
			}
		},
	}
	r := newTestRouter(gateway, &testutil.MockAuditRepo{})

	rec := doJSON(t, r, http.MethodPost, "/v1/simulate", map[string]interface{}{
		"statement": "SELECT email FROM customers",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var sim domain.SimulationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sim))
	assert.True(t, sim.Valid)
	assert.Equal(t, "SELECT", sim.StatementTypeName)
	assert.Equal(t, domain.CategoryPII, sim.ColumnClassification["email"])
}

// === /v1/audit ===

func TestListAudit(t *testing.T) {
	score := int64(50)
	audit := &testutil.MockAuditRepo{
		ListFn: func(_ context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
			require.NotNil(t, filter.Decision)
			assert.Equal(t, domain.AuditDenied, *filter.Decision)
			assert.Equal(t, 1, filter.Page.MaxResults)
			return []domain.AuditEntry{{
				ID:        "entry-1",
				Statement: "SELECT ssn FROM customers",
				Decision:  domain.AuditDenied,
				Reason:    "policy denies access to PII data",
				RiskScore: &score,
				CreatedAt: time.Now(),
			}}, 3, nil
		},
	}
	r := newTestRouter(&mockGateway{}, audit)

	req := httptest.NewRequest(http.MethodGet, "/v1/audit?decision=denied&max_results=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp auditListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "entry-1", resp.Entries[0].ID)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.NotEmpty(t, resp.NextPageToken, "more pages remain")
}

func TestListAudit_RejectsUnknownDecision(t *testing.T) {
	r := newTestRouter(&mockGateway{}, &testutil.MockAuditRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/audit?decision=MAYBE", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAudit_RejectsBadMaxResults(t *testing.T) {
	r := newTestRouter(&mockGateway{}, &testutil.MockAuditRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/audit?max_results=-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// === /healthz ===

func TestHealth(t *testing.T) {
	r := newTestRouter(&mockGateway{}, &testutil.MockAuditRepo{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
