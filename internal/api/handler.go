// Package api exposes the governed SQL pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sqlgate/internal/domain"
)

// Gateway is the pipeline surface the handlers need. Implemented by app.App.
type Gateway interface {
	Run(ctx context.Context, userInput *string, statement string) (*domain.ExecutionOutcome, error)
	Simulate(ctx context.Context, statement string) *domain.SimulationResult
}

// Handler serves the /v1 API.
type Handler struct {
	gateway Gateway
	audit   domain.AuditRepository
	logger  *slog.Logger
}

func NewHandler(gateway Gateway, audit domain.AuditRepository, logger *slog.Logger) *Handler {
	return &Handler{gateway: gateway, audit: audit, logger: logger}
}

// RegisterRoutes mounts the API endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/query", h.RunQuery)
	r.Post("/v1/simulate", h.SimulateQuery)
	r.Get("/v1/audit", h.ListAudit)
	r.Get("/healthz", h.Health)
}

type queryRequest struct {
	UserInput *string `json:"user_input,omitempty"`
	Statement string  `json:"statement"`
}

type auditListResponse struct {
	Entries       []auditEntryJSON `json:"entries"`
	TotalCount    int64            `json:"total_count"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

type auditEntryJSON struct {
	ID             string  `json:"id"`
	CreatedAt      string  `json:"created_at"`
	UserInput      *string `json:"user_input,omitempty"`
	Statement      string  `json:"statement"`
	Decision       string  `json:"decision"`
	Reason         string  `json:"reason"`
	SimulationJSON string  `json:"simulation_json,omitempty"`
	RiskScore      *int64  `json:"risk_score,omitempty"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RunQuery drives the full pipeline: sandbox simulation, governance, real
// execution, audit. Denials are successful HTTP responses — the outcome
// carries the decision.
func (h *Handler) RunQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQueryRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.gateway.Run(r.Context(), req.UserInput, req.Statement)
	if err != nil {
		// The outcome is already terminal; the error reports an audit sink
		// fault, which the caller must know about.
		h.logger.Error("pipeline infrastructure fault", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// SimulateQuery dry-runs a statement without touching the real store or the
// audit log.
func (h *Handler) SimulateQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQueryRequest(w, r)
	if !ok {
		return
	}

	sim := h.gateway.Simulate(r.Context(), req.Statement)
	writeJSON(w, http.StatusOK, sim)
}

// ListAudit returns a page of audit entries, newest first.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{}

	if v := r.URL.Query().Get("decision"); v != "" {
		decision := strings.ToUpper(v)
		switch decision {
		case domain.AuditAllowed, domain.AuditDenied, domain.AuditExecutionFailed:
			filter.Decision = &decision
		default:
			writeError(w, http.StatusBadRequest, "unknown decision filter: "+v)
			return
		}
	}
	if v := r.URL.Query().Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "max_results must be a positive integer")
			return
		}
		filter.Page.MaxResults = n
	}
	filter.Page.PageToken = r.URL.Query().Get("page_token")

	entries, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("audit list failed", "error", err)
		writeError(w, httpStatusFromDomainError(err), err.Error())
		return
	}

	resp := auditListResponse{
		Entries:    make([]auditEntryJSON, len(entries)),
		TotalCount: total,
		NextPageToken: domain.NextPageToken(
			filter.Page.Offset(), filter.Page.Limit(), total),
	}
	for i, e := range entries {
		resp.Entries[i] = auditEntryToAPI(e)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeQueryRequest(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return req, false
	}
	if strings.TrimSpace(req.Statement) == "" {
		writeError(w, http.StatusBadRequest, "statement is required")
		return req, false
	}
	return req, true
}

func auditEntryToAPI(e domain.AuditEntry) auditEntryJSON {
	return auditEntryJSON{
		ID:             e.ID,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339Nano),
		UserInput:      e.UserInput,
		Statement:      e.Statement,
		Decision:       e.Decision,
		Reason:         e.Reason,
		SimulationJSON: e.SimulationJSON,
		RiskScore:      e.RiskScore,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}
