package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/commandhub/audio-studio/internal/api"
	"github.com/commandhub/audio-studio/internal/config"
	"github.com/commandhub/audio-studio/internal/observability"
	"github.com/commandhub/audio-studio/internal/studio"
	"github.com/commandhub/audio-studio/internal/tts"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("tts_provider", cfg.TTSProvider).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Audio Studio Service starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}

	logger.Info().Msg("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := observability.GetLogger()

	generator, err := tts.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create speech generator: %w", err)
	}
	service := studio.NewAudioService(generator, cfg)

	// Readiness covers configuration and the upstream breaker; no billable calls are made
	readyChecks := map[string]observability.HealthCheckFunc{
		"generator": service.Ready,
	}

	mux := api.NewRouter(service, api.RouterConfig{
		MaxBodyBytes:   cfg.MaxBodyBytes,
		MetricsEnabled: cfg.MetricsEnabled,
		ReadyChecks:    readyChecks,
	})

	// Generation can take most of a minute; the write timeout must cover it
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeoutDuration()*time.Duration(max(cfg.RetryMaxAttempts, 1)) + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("http://localhost:%s/v1/audio", cfg.Port)).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	var grpcHealth *observability.GRPCHealth
	if cfg.GRPCHealthPort != "" {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCHealthPort))
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC health: %w", err)
		}
		grpcHealth = observability.NewGRPCHealth(readyChecks)

		g.Go(func() error {
			logger.Info().Str("port", cfg.GRPCHealthPort).Msg("gRPC health server listening")
			return grpcHealth.Serve(lis)
		})
		g.Go(func() error {
			grpcHealth.Watch(gctx, 10*time.Second)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if grpcHealth != nil {
			grpcHealth.Stop()
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
