// Package lifecycle pkg/lifecycle/server.go runs a service next to its gRPC
// health endpoint and handles process signals.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mfreeman451/beatradar/pkg/grpc"
)

const (
	MaxRecvSize     = 4 * 1024 * 1024 // 4MB
	MaxSendSize     = 4 * 1024 * 1024 // 4MB
	ShutdownTimeout = 10 * time.Second
)

// Service defines the interface that all services must implement.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// GRPCServiceRegistrar is a function type for registering gRPC services.
type GRPCServiceRegistrar func(*grpc.Server) error

// ServerOptions holds configuration for creating a server.
type ServerOptions struct {
	ListenAddr           string // gRPC address; empty runs the service without gRPC
	ServiceName          string
	Service              Service
	RegisterGRPCServices []GRPCServiceRegistrar
	EnableHealthCheck    bool
	Logger               zerolog.Logger
	// Signals overrides the shutdown signals, mainly for tests.
	Signals []os.Signal
}

// RunServer starts a service with the provided options and blocks until a
// shutdown signal, a service error or ctx cancellation.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := opts.Logger

	logger.Info().Str("service", opts.ServiceName).Msg("*** Starting service")

	var grpcServer *grpc.Server

	if opts.ListenAddr != "" {
		grpcServer = setupGRPCServer(opts, logger)
	}

	// Create error channel for service errors
	errChan := make(chan error, 2)

	go func() {
		if err := opts.Service.Start(ctx); err != nil {
			select {
			case errChan <- err:
			default:
				logger.Error().Err(err).Msg("Service error")
			}
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				select {
				case errChan <- err:
				default:
					logger.Error().Err(err).Msg("gRPC server error")
				}
			}
		}()
	}

	return handleShutdown(ctx, cancel, grpcServer, opts, errChan)
}

func setupGRPCServer(opts *ServerOptions, logger zerolog.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(opts.ListenAddr, logger,
		grpc.WithMaxRecvSize(MaxRecvSize),
		grpc.WithMaxSendSize(MaxSendSize),
	)

	if opts.EnableHealthCheck {
		if err := grpcServer.RegisterHealthServer(); err != nil {
			logger.Warn().Err(err).Msg("Failed to register health server")
		}

		grpcServer.SetServing(opts.ServiceName, true)
	}

	for _, register := range opts.RegisterGRPCServices {
		if err := register(grpcServer); err != nil {
			logger.Error().Err(err).Msg("Failed to register gRPC service")
		}
	}

	return grpcServer
}

func handleShutdown(
	ctx context.Context, cancel context.CancelFunc, grpcServer *grpc.Server, opts *ServerOptions, errChan chan error) error {
	logger := opts.Logger

	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, signals...)

	defer signal.Stop(sigChan)

	var result error

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown")
	case err := <-errChan:
		logger.Error().Err(err).Msg("Received error, initiating shutdown")

		result = fmt.Errorf("service error: %w", err)
	case <-ctx.Done():
		logger.Info().Msg("Context canceled, initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	if grpcServer != nil {
		grpcServer.Stop(shutdownCtx)
	}

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during service shutdown")

		if result == nil {
			result = fmt.Errorf("shutdown error: %w", err)
		}
	}

	return result
}
