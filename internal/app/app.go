// Package app assembles the service: configuration, logging, the sqlite
// store, the auth and housekeeping services, the diagnostic probes, and the
// HTTP server with graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsdeck/authd/internal/diag"
	"github.com/opsdeck/authd/internal/domain"
	"github.com/opsdeck/authd/internal/httpapi"
	"github.com/opsdeck/authd/internal/service"
	"github.com/opsdeck/authd/internal/store/gormstore"
	"github.com/opsdeck/authd/pkg/cryptox"
	"github.com/opsdeck/authd/pkg/jwtx"
	"github.com/opsdeck/authd/pkg/slogx"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

type Application struct {
	cfg    Config
	logger *slog.Logger

	store        *gormstore.Store
	housekeeping *service.HousekeepingService
	server       *http.Server
}

// New builds the full application from configuration. A missing signing
// secret is a fatal configuration error: the service refuses to start rather
// than issue unverifiable tokens.
func New(cfg Config) (*Application, error) {
	if cfg.JWTSecret == "" {
		return nil, domain.E(domain.KindConfiguration, "AUTH_JWT_SECRET is not set")
	}

	logger := slogx.New(slogx.Config{
		Service: "authd",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	st, err := gormstore.Open(cfg.DatabaseFile, gormstore.Options{Debug: cfg.LogLevel == "debug"})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	signer, err := jwtx.NewSignerHS256([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, domain.WrapError(domain.KindConfiguration, "build token signer", err)
	}

	authService := &service.AuthService{
		Store:      st,
		Hasher:     cryptox.Bcrypt{},
		Signer:     signer,
		Issuer:     cfg.Issuer,
		SessionTTL: cfg.SessionTTL,
	}

	router := httpapi.NewRouter(Version, st, logger)
	router.AuthService = authService
	router.SignerConfigured = true
	router.Probes = []diag.Probe{
		diag.NewTwitter(diag.ProviderConfig{BaseURL: cfg.TwitterBaseURL, Credential: cfg.TwitterBearerToken}),
		diag.NewAnthropic(diag.ProviderConfig{BaseURL: cfg.AnthropicBaseURL, Credential: cfg.AnthropicAPIKey}),
		diag.NewOpenAI(diag.ProviderConfig{BaseURL: cfg.OpenAIBaseURL, Credential: cfg.OpenAIAPIKey}),
	}
	router.Aggregator = &diag.Aggregator{
		BaseURL:  fmt.Sprintf("http://127.0.0.1:%d", cfg.Port),
		Services: []string{"twitter", "anthropic", "openai"},
	}
	router.ApplyRoutes()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Application{
		cfg:          cfg,
		logger:       logger,
		store:        st,
		housekeeping: service.NewHousekeepingService(st, logger, cfg.HousekeepingInterval),
		server:       server,
	}, nil
}

// Run starts the HTTP server and the housekeeping worker, then blocks until
// the process receives SIGINT/SIGTERM or the server fails.
func (a *Application) Run() error {
	a.housekeeping.Start()

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		// The listener is already gone; still stop the worker and close
		// the store before surfacing the failure.
		a.housekeeping.Stop()
		if closeErr := a.store.Close(); closeErr != nil {
			a.logger.Error("store close failed", "err", closeErr)
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		a.logger.Info("shutdown signal received", "signal", sig.String())
		return a.Shutdown()
	}
}

// Shutdown drains in-flight requests within the grace period, stops the
// housekeeping worker, and closes the store.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("graceful shutdown failed, forcing close", "err", err)
		_ = a.server.Close()
	}

	a.housekeeping.Stop()

	if err := a.store.Close(); err != nil {
		a.logger.Error("store close failed", "err", err)
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
