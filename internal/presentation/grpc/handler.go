package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ledgerguard/riskscan/internal/application/dto"
	"github.com/ledgerguard/riskscan/internal/domain/model"
)

// ScanExecutor is satisfied by *usecase.RunScan.
type ScanExecutor interface {
	Execute(ctx context.Context, req dto.ScanRequest) (dto.ScanResponse, error)
}

// TokenMetricsExecutor is satisfied by *usecase.TokenMetrics.
type TokenMetricsExecutor interface {
	Execute(ctx context.Context, req dto.TokenMetricsRequest) (dto.ConcentrationReport, error)
}

var _ RiskScanServiceServer = (*RiskScanHandler)(nil)

// RiskScanHandler implements RiskScanServiceServer.
type RiskScanHandler struct {
	UnimplementedRiskScanServiceServer
	scans   ScanExecutor
	metrics TokenMetricsExecutor
	logger  *slog.Logger
}

// NewRiskScanHandler creates a new gRPC handler.
func NewRiskScanHandler(scans ScanExecutor, metrics TokenMetricsExecutor, logger *slog.Logger) *RiskScanHandler {
	return &RiskScanHandler{scans: scans, metrics: metrics, logger: logger}
}

// Proto-aligned request/response message types.

// ScanRequest represents the proto ScanRequest message.
type ScanRequest struct {
	Mode     string `json:"mode"`
	Account  string `json:"account"`
	Currency string `json:"currency"`
	Domain   string `json:"domain"`
	TopN     int32  `json:"top_n"`
}

// ScanResponse represents the proto ScanResponse message.
type ScanResponse struct {
	Scan *dto.ScanResponse `json:"scan"`
}

// TokenMetricsRequest represents the proto TokenMetricsRequest message.
type TokenMetricsRequest struct {
	Issuer   string `json:"issuer"`
	Currency string `json:"currency"`
	TopN     int32  `json:"top_n"`
}

// TokenMetricsResponse represents the proto TokenMetricsResponse message.
type TokenMetricsResponse struct {
	Report *dto.ConcentrationReport `json:"report"`
}

// Scan runs a risk scan.
func (h *RiskScanHandler) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := h.scans.Execute(ctx, dto.ScanRequest{
		Mode:     req.Mode,
		Account:  req.Account,
		Currency: req.Currency,
		Domain:   req.Domain,
		TopN:     int(req.TopN),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "scan", err)
	}
	return &ScanResponse{Scan: &resp}, nil
}

// TokenMetrics returns the holder concentration report.
func (h *RiskScanHandler) TokenMetrics(ctx context.Context, req *TokenMetricsRequest) (*TokenMetricsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	report, err := h.metrics.Execute(ctx, dto.TokenMetricsRequest{
		Issuer:   req.Issuer,
		Currency: req.Currency,
		TopN:     int(req.TopN),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "token metrics", err)
	}
	return &TokenMetricsResponse{Report: &report}, nil
}

func (h *RiskScanHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, model.ErrTransport):
		return status.Error(codes.Unavailable, err.Error())
	}

	h.logger.ErrorContext(ctx, "failed to run "+op, slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}
