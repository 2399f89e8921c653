// Package grpc implements the gRPC transport layer of the server.
//
// The gRPC surface is intentionally small: it exposes the standard health
// service so that orchestrators can probe liveness without going through the
// HTTP API.
package grpc

import (
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Handler is the root gRPC transport handler. It stores references to the
// service layer and structured logger so that gRPC method handlers can
// delegate business logic and emit consistent logs.
type Handler struct {
	services *service.Services

	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger, and returns the initialized instance.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// Register attaches the handler's gRPC services to srv. Currently this is
// the standard health service, reported as serving from startup.
func (h *Handler) Register(srv *grpc.Server) {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	h.logger.Debug().Msg("gRPC health service registered")
}
