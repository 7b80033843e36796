// Command authgate serves a small HTTP API behind the authgate middleware.
//
// Put an EC public key at ./jwt_key.pem (or AUTHGATE_KEY_PATH) to enable
// authentication; without it every request passes through untouched.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/routerd/authgate"
	"github.com/routerd/authgate/internal/config"
	"github.com/routerd/authgate/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Log)
	gateLogger, err := newGateLogger(cfg.Log, logger, os.Stderr)
	if err != nil {
		logger.Fatalf("failed to create the %s logger: %v", cfg.Log.Backend, err)
	}

	if err := authgate.Setup(
		authgate.WithKeyPath(cfg.Auth.KeyPath),
		authgate.WithSetupLogger(gateLogger),
		authgate.WithPolicyOptions(validator.WithLeeway(cfg.Auth.Leeway)),
	); err != nil {
		logger.Fatalf("failed to set up JWT validation: %v", err)
	}

	backend, err := authgate.BackendByName(cfg.Auth.Backend)
	if err != nil {
		logger.Fatalf("failed to select token backend: %v", err)
	}

	registry := prometheus.NewRegistry()
	gate, err := authgate.New(
		authgate.WithBackend(backend),
		authgate.WithLogger(gateLogger),
		authgate.WithMetrics(authgate.NewPrometheusMetrics(registry)),
		authgate.WithTracer(authgate.NewOpenTelemetryTracer(otel.Tracer("authgate"))),
	)
	if err != nil {
		logger.Fatalf("failed to create the gate: %v", err)
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: newRouter(gate, registry, cfg.Server.CORSAllowedOrigins),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
