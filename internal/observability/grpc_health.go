package observability

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCHealth serves grpc.health.v1 so orchestrators can probe the service
// without HTTP. The overall status ("") and ServiceName follow the readiness checks.
type GRPCHealth struct {
	server *grpc.Server
	health *health.Server
	checks map[string]HealthCheckFunc
}

// NewGRPCHealth creates the gRPC health server
func NewGRPCHealth(checks map[string]HealthCheckFunc) *GRPCHealth {
	h := &GRPCHealth{
		server: grpc.NewServer(),
		health: health.NewServer(),
		checks: checks,
	}
	healthpb.RegisterHealthServer(h.server, h.health)
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Refresh runs the checks once and publishes the result
func (h *GRPCHealth) Refresh(ctx context.Context) bool {
	_, ok := CheckDependencies(ctx, h.checks)
	if ok {
		h.setStatus(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return ok
}

// Watch refreshes the status every interval until ctx is done
func (h *GRPCHealth) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		h.Refresh(checkCtx)
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Serve blocks serving health checks on lis
func (h *GRPCHealth) Serve(lis net.Listener) error {
	return h.server.Serve(lis)
}

// Stop marks the service as shutting down and stops the server
func (h *GRPCHealth) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}

func (h *GRPCHealth) setStatus(s healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", s)
	h.health.SetServingStatus(ServiceName, s)
}
