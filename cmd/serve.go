package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/compass/internal/api"
	"github.com/UnknownOlympus/compass/internal/cache"
	"github.com/UnknownOlympus/compass/internal/config"
	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/ratelimit"
	"github.com/UnknownOlympus/compass/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// app holds the collaborators shared by the server and the one-shot commands.
type app struct {
	service *service.GeolocationService
	limiter *ratelimit.Limiter
	store   cache.Store
}

// buildApp wires provider, cache, limiter and service from cfg.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*app, error) {
	appMetrics := metrics.NewMetrics(reg)

	// Create geocoding provider using factory pattern based on configuration
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Provider.Type),
		APIKey:    cfg.Provider.APIKey,
		RateLimit: cfg.Provider.QPS,
		Timeout:   cfg.Provider.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding provider: %w", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Provider.Type)

	store, err := cache.NewStore(ctx, cache.Options{
		Backend:          cache.Backend(cfg.Cache.Backend),
		SweepInterval:    cfg.Cache.SweepInterval,
		RedisAddr:        cfg.Cache.Redis.Addr,
		RedisPassword:    cfg.Cache.Redis.Password,
		RedisDB:          cfg.Cache.Redis.DB,
		PostgresHost:     cfg.Cache.Database.Host,
		PostgresPort:     cfg.Cache.Database.Port,
		PostgresUser:     cfg.Cache.Database.User,
		PostgresPassword: cfg.Cache.Database.Password,
		PostgresName:     cfg.Cache.Database.Name,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}
	logger.InfoContext(ctx, "Result cache initialized", "backend", cfg.Cache.Backend)

	limiter := ratelimit.New(ratelimit.Config{
		Capacity:     cfg.RateLimit.Capacity,
		Window:       cfg.RateLimit.Window,
		IdleTTL:      cfg.RateLimit.IdleTTL,
		CleanupEvery: ratelimit.DefaultCleanupEvery,
	})
	metrics.RegisterIdentityGauge(reg, limiter.Count)

	geoService := service.NewGeolocationService(
		logger,
		geoProvider,
		cfg.Provider.Type, // Provider name for metrics
		limiter,
		store,
		appMetrics,
		service.Options{
			ValidationTTL:   cfg.Cache.ValidationTTL,
			CoordinatesTTL:  cfg.Cache.CoordinatesTTL,
			NearbyTTL:       cfg.Cache.NearbyTTL,
			ProviderTimeout: cfg.Provider.Timeout,
		},
	)

	return &app{service: geoService, limiter: limiter, store: store}, nil
}

// serve runs the API and monitoring servers until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	application, err := buildApp(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := application.store.Close(); errClose != nil {
			logger.ErrorContext(ctx, "Failed to close cache store", "error", errClose)
		}
	}()

	application.limiter.StartJanitor(ctx)

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(logger, application.service)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, application.store, cfg.HealthPort)

	if err = server.Run(ctx, fmt.Sprintf(":%d", cfg.HTTPPort)); err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

// pinger reports whether a backing service is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

// newMonitoringMux serves /healthz, which pings the cache backend, and /metrics.
func newMonitoringMux(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, store pinger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := store.Ping(req.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, "Cache ping failed"
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	store pinger,
	port int,
) {
	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      newMonitoringMux(ctx, log, reg, store),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}
