// Package rest exposes the scan use cases over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerguard/riskscan/internal/application/dto"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

const maxBodyBytes = 1 << 16

// ScanExecutor is satisfied by *usecase.RunScan.
type ScanExecutor interface {
	Execute(ctx context.Context, req dto.ScanRequest) (dto.ScanResponse, error)
}

// TokenMetricsExecutor is satisfied by *usecase.TokenMetrics.
type TokenMetricsExecutor interface {
	Execute(ctx context.Context, req dto.TokenMetricsRequest) (dto.ConcentrationReport, error)
}

// Handler serves the /api/v1 routes.
type Handler struct {
	scans   ScanExecutor
	metrics TokenMetricsExecutor
	logger  *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(scans ScanExecutor, metrics TokenMetricsExecutor, logger *slog.Logger) *Handler {
	return &Handler{scans: scans, metrics: metrics, logger: logger}
}

// RouterConfig collects what NewRouter mounts besides the API.
type RouterConfig struct {
	Health         *HealthHandler
	MetricsHandler http.Handler
	Limiter        *RateLimiter
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(h *Handler, cfg RouterConfig, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(StripWWW)
	r.Use(middleware.RequestID)
	r.Use(Logging(logger))
	r.Use(middleware.Recoverer)

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Tracing)
		if cfg.Limiter != nil {
			r.Use(RateLimit(cfg.Limiter))
		}
		r.Get("/check", h.Check)
		r.Post("/scans", h.Scan)
		r.Post("/project-check", h.ProjectCheck)
		r.Post("/token-metrics", h.TokenMetrics)
	})
	return r
}

// Check runs a wallet scan for ?address=.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, http.StatusBadRequest, "no address provided")
		return
	}
	h.runScan(w, r, dto.ScanRequest{Mode: valueobject.ScanModeWallet.String(), Account: address})
}

// Scan runs a scan in any mode.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req dto.ScanRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runScan(w, r, req)
}

type projectCheckRequest struct {
	Domain string `json:"domain"`
}

// ProjectCheck runs a project-mode scan for a domain.
func (h *Handler) ProjectCheck(w http.ResponseWriter, r *http.Request) {
	var req projectCheckRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runScan(w, r, dto.ScanRequest{Mode: valueobject.ScanModeProject.String(), Domain: req.Domain})
}

// TokenMetrics returns the holder concentration report for an issued token.
func (h *Handler) TokenMetrics(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenMetricsRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.metrics.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) runScan(w http.ResponseWriter, r *http.Request, req dto.ScanRequest) {
	resp, err := h.scans.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	writeError(w, status, err.Error())
}
