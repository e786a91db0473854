package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicefinder/internal/api"
	"servicefinder/internal/auth"
	"servicefinder/internal/config"
	"servicefinder/internal/database"
	"servicefinder/internal/domain"
	"servicefinder/internal/events"
	"servicefinder/internal/export"
	"servicefinder/internal/logging"
	"servicefinder/internal/metrics"
	"servicefinder/internal/repository"
	"servicefinder/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml (defaults to $CONFIG_PATH or configs/config.yaml)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	logger := logging.Component(baseLogger, "api-main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(cfg.Database.Path, logging.Component(baseLogger, "database"))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	go database.NewBackupService(db, cfg.Backup, logging.Component(baseLogger, "backup")).Start(ctx)

	readyChecks := map[string]api.ReadyCheck{"database": db.Ping}

	store, redisClient := initTokenStore(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
		readyChecks["redis"] = func(ctx context.Context) error { return repository.Ping(ctx, redisClient) }
	}

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	bus := events.NewEventBus(logging.Component(baseLogger, "events"))
	eventLog := events.LogHandler(logging.Component(baseLogger, "booking-events"))
	bus.SubscribeMany(events.BookingEvents, func(event *events.Event) error {
		metrics.IncBookingEvent(event.Type)
		return eventLog(event)
	})

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return fmt.Errorf("init tokens: %w", err)
	}

	svcLogger := logging.Component(baseLogger, "service")
	bookings := service.NewBookingService(db, bus, svcLogger)
	services := api.Services{
		Auth:           service.NewAuthService(db, tokens, auth.NewHasher(cfg.Auth.BcryptCost), store, cfg.Auth, svcLogger),
		Users:          service.NewUserService(db, svcLogger),
		Bookings:       bookings,
		Categories:     service.NewCategoryService(db),
		Packages:       service.NewPackageService(db),
		Portfolios:     service.NewPortfolioService(db),
		Certifications: service.NewCertificationService(db),
		Reviews:        service.NewReviewService(db),
		Exporter:       export.NewExporter(bookings, logging.Component(baseLogger, "export")),
	}

	httpLogger := logging.Component(baseLogger, "http")
	handler := api.NewHandler(cfg, services, readyChecks, httpLogger)
	httpServer := api.NewHTTPServer(cfg.HTTP, api.NewRouter(handler), httpLogger)

	return serve(ctx, httpServer, logger)
}

// initTokenStore prefers Redis and falls back to process memory when it is
// not configured or unreachable at startup.
func initTokenStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.TokenStore, *redis.Client) {
	memory := repository.NewMemoryTokenStore()
	if cfg.Redis.Address == "" {
		logger.Warn().Msg("redis not configured, auth state is kept in memory")
		return memory, nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Connect(ctx, client, repository.DefaultDialPolicy); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis connection failed, continuing without redis")
		_ = repository.Close(client)
		return memory, nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return repository.NewFailoverTokenStore(repository.NewRedisTokenStore(client), memory, logger), client
}

func serve(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
		return err
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
