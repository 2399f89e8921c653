package server

import (
	"net"

	"github.com/MKhiriev/go-record-sync/internal/config"
	myGRPC "github.com/MKhiriev/go-record-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-record-sync/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	server  *grpc.Server
	address string

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	srv := grpc.NewServer()
	handler.Register(srv)

	return &grpcServer{
		server:  srv,
		address: cfg.GRPCAddress,
		logger:  logger,
	}
}

func (g *grpcServer) RunServer() {
	listener, err := net.Listen("tcp", g.address)
	if err != nil {
		g.logger.Error().Msgf("gRPC server Listen: %v\n", err)
		return
	}

	if err := g.server.Serve(listener); err != nil {
		g.logger.Error().Msgf("gRPC server Serve: %v\n", err)
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.server.GracefulStop()
}
