package httpapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"gadgetry.org/internal/obs"
)

// HealthServer answers grpc.health.v1 probes from the same readiness check
// that backs /readyz.
type HealthServer struct {
	*health.Server

	readiness readinessChecker
}

// NewHealthServer creates the gRPC health service wrapper.
func NewHealthServer(r readinessChecker) *HealthServer {
	if r == nil {
		r = ReadyProbe{}
	}
	return &HealthServer{
		Server:    health.NewServer(),
		readiness: r,
	}
}

// Register attaches the health service to srv.
func (s *HealthServer) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s)
}

// Check refreshes the serving status before delegating to the embedded server.
func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.readiness.Check(ctx); err != nil {
		obs.SetReady(false)
		obs.Error("grpc readiness probe failed", err, nil)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	} else {
		obs.SetReady(true)
	}
	s.SetServingStatus("", st)
	s.SetServingStatus(serviceName, st)
	return s.Server.Check(ctx, req)
}
