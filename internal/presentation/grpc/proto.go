package grpc

// Hand-written equivalent of the code protoc-gen-go-grpc would emit for
// riskscan/v1/riskscan.proto. Messages travel with the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Full method names.
const (
	ServiceName              = "riskscan.v1.RiskScanService"
	MethodScan               = "/" + ServiceName + "/Scan"
	MethodTokenMetrics       = "/" + ServiceName + "/TokenMetrics"
	healthServiceStatusEntry = ServiceName
)

// RiskScanServiceServer is the server API for RiskScanService.
type RiskScanServiceServer interface {
	Scan(context.Context, *ScanRequest) (*ScanResponse, error)
	TokenMetrics(context.Context, *TokenMetricsRequest) (*TokenMetricsResponse, error)
	mustEmbedUnimplementedRiskScanServiceServer()
}

// UnimplementedRiskScanServiceServer provides forward-compatible default implementations.
type UnimplementedRiskScanServiceServer struct{}

func (UnimplementedRiskScanServiceServer) Scan(context.Context, *ScanRequest) (*ScanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Scan not implemented")
}
func (UnimplementedRiskScanServiceServer) TokenMetrics(context.Context, *TokenMetricsRequest) (*TokenMetricsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method TokenMetrics not implemented")
}
func (UnimplementedRiskScanServiceServer) mustEmbedUnimplementedRiskScanServiceServer() {}

// RegisterRiskScanServiceServer registers srv with s.
func RegisterRiskScanServiceServer(s grpclib.ServiceRegistrar, srv RiskScanServiceServer) {
	s.RegisterService(&riskScanServiceDesc, srv)
}

var riskScanServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskScanServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Scan", Handler: scanHandler},
		{MethodName: "TokenMetrics", Handler: tokenMetricsHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "riskscan/v1/riskscan.proto",
}

func scanHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ScanRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskScanServiceServer).Scan(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodScan}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RiskScanServiceServer).Scan(ctx, req.(*ScanRequest))
	})
}

func tokenMetricsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(TokenMetricsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskScanServiceServer).TokenMetrics(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodTokenMetrics}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RiskScanServiceServer).TokenMetrics(ctx, req.(*TokenMetricsRequest))
	})
}
