package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AntonStoeckl/library-lending-go/library/httpapi"
	"github.com/AntonStoeckl/library-lending-go/library/identity"
	"github.com/AntonStoeckl/library-lending-go/library/lending"
	"github.com/AntonStoeckl/library-lending-go/library/scanner"
	"github.com/AntonStoeckl/library-lending-go/library/shell/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("LENDING_CONFIG"), "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "lendingd: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen
func run(configPath string) error {
	// 1. Configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Observability, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Observability
	providers, err := config.NewObservabilityProviders(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("setting up OpenTelemetry failed: %w", err)
	}
	defer func() {
		if shutdownErr := providers.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("shutting down OpenTelemetry failed", "error", shutdownErr.Error())
		}
	}()

	obs := newObservabilityConfig(cfg.Observability, logger)

	// 3. Event store and services
	eventStore, closeDB, err := initializeEventStore(ctx, cfg.Database, logger, obs.eventStoreOptions()...)
	if err != nil {
		return fmt.Errorf("creating the event store failed: %w", err)
	}
	defer closeDB()

	service, err := lending.NewService(eventStore, obs.lendingOptions()...)
	if err != nil {
		return err
	}

	identityOptions := []identity.Option{identity.WithIssuer(cfg.Auth.Issuer), identity.WithTokenTTL(cfg.Auth.TokenTTL)}
	if cfg.Auth.BcryptCost > 0 {
		identityOptions = append(identityOptions, identity.WithBcryptCost(cfg.Auth.BcryptCost))
	}

	provider, err := identity.NewProvider(service, cfg.Auth.Secret, identityOptions...)
	if err != nil {
		return err
	}

	if cfg.Auth.Admin.Username != "" {
		name := cfg.Auth.Admin.Name
		if name == "" {
			name = cfg.Auth.Admin.Username
		}

		admin, created, ensureErr := provider.EnsureAdmin(ctx, cfg.Auth.Admin.Username, cfg.Auth.Admin.Password, name)
		if ensureErr != nil {
			return fmt.Errorf("bootstrapping the admin failed: %w", ensureErr)
		}

		logger.Info("admin ready", "username", admin.Username, "created", created)
	}

	// 4. Overdue scanner
	if cfg.Scanner.Enabled {
		scannerOptions := []scanner.Option{scanner.WithInterval(cfg.Scanner.Interval), scanner.WithLogger(logger)}

		if cfg.Scanner.RedisURL != "" {
			redisOptions, parseErr := redis.ParseURL(cfg.Scanner.RedisURL)
			if parseErr != nil {
				return fmt.Errorf("invalid scanner.redis_url: %w", parseErr)
			}

			redisClient := redis.NewClient(redisOptions)
			defer redisClient.Close()

			scannerOptions = append(scannerOptions, scanner.WithLock(
				scanner.NewRedisLock(redisClient, cfg.Scanner.LockKey, cfg.Scanner.LockTTL),
			))
		}

		go scanner.NewScanner(service, scannerOptions...).Start(ctx)
	}

	// 5. HTTP server
	gin.SetMode(gin.ReleaseMode)

	apiOptions := []httpapi.Option{httpapi.WithLogger(logger), httpapi.WithCORSOrigins(cfg.CORS.AllowedOrigins...)}
	if obs.metricsHandler != nil {
		apiOptions = append(apiOptions, httpapi.WithMetricsHandler(obs.metricsHandler))
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      otelhttp.NewHandler(httpapi.NewServer(service, provider, apiOptions...).Handler(), "lendingd"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Server.Addr, "adapter", cfg.Database.Adapter)
		if listenErr := server.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			serverErr <- listenErr
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down the server failed: %w", err)
	}

	logger.Info("server stopped")

	return nil
}
