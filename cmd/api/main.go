package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/cmd/mainconfig"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/api/router"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/app/bootstrap"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/availability"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/booking"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/bookings"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	appconfig "github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/config"
	httpmiddleware "github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/http/middleware"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/notify"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/observability/metrics"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/search"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dentalsuite API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"catalog_source", cfg.CatalogSource,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires every dependency into the router. Booking endpoints need
// both Postgres (appointments) and Redis (sessions); without either the API
// serves the read-only catalog.
func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*app, error) {
	a := &app{}
	checks := map[string]router.HealthCheck{}

	pool, err := bootstrap.BuildPostgresPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	var db clinic.Querier
	if pool != nil {
		db = pool
		a.closers = append(a.closers, pool.Close)
		checks["postgres"] = pool.Ping
	}

	catalog, err := bootstrap.BuildCatalog(ctx, cfg, db, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	metricsHandler, searchMetrics, bookingMetrics := setupMetrics()
	calc := availability.New(cfg.Location())

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stopEvictor := make(chan struct{})
	go limiter.RunEvictor(5*time.Minute, stopEvictor)
	a.closers = append(a.closers, func() { close(stopEvictor) })

	routerCfg := &router.Config{
		Logger:        logger,
		ClinicHandler: clinic.NewHandler(catalog, logger),
		SearchHandler: search.NewHandler(search.NewEngine(catalog), searchMetrics, logger),
		AvailabilityHandler: availability.NewHandler(catalog, calc, availability.HandlerConfig{
			HorizonDays: cfg.AvailabilityHorizonDays,
			MaxResults:  cfg.AvailabilityMaxResults,
		}, searchMetrics, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		HealthChecks:       checks,
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	if pool != nil {
		service := bookings.NewService(bookings.NewRepository(pool), logger)
		routerCfg.AppointmentsHandler = bookings.NewHandler(service, logger)

		if redisClient != nil {
			wizard, err := buildWizard(ctx, cfg, catalog, calc, redisClient, service, bookingMetrics, logger)
			if err != nil {
				a.close()
				return nil, err
			}
			routerCfg.BookingHandler = booking.NewHandler(wizard, logger)
		}
	}
	if routerCfg.BookingHandler == nil {
		logger.Warn("booking wizard disabled; set DATABASE_URL and REDIS_ADDR to enable it")
	}

	a.handler = router.New(routerCfg)
	return a, nil
}

func buildWizard(
	ctx context.Context,
	cfg *appconfig.Config,
	catalog *clinic.Catalog,
	calc *availability.Calculator,
	redisClient *redis.Client,
	booker booking.AppointmentBooker,
	bookingMetrics *metrics.BookingMetrics,
	logger *logging.Logger,
) (*booking.Wizard, error) {
	var ses notify.SESAPI
	if cfg.EmailProvider == appconfig.EmailProviderSES {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		ses = mainconfig.NewSESClient(awsCfg, cfg)
	}
	sender, err := bootstrap.BuildEmailSender(cfg, ses, logger)
	if err != nil {
		return nil, err
	}

	return booking.NewWizard(booking.WizardDeps{
		Catalog:    catalog,
		Calculator: calc,
		Store:      booking.NewRedisSessionStore(redisClient, cfg.BookingSessionTTL),
		Booker:     booker,
		Notifier:   notify.NewBookingNotifier(sender, cfg.ClinicNotificationEmail, logger),
		Metrics:    bookingMetrics,
		Logger:     logger,
	}), nil
}

// setupMetrics builds a dedicated registry so /metrics only exposes this
// service's collectors plus the Go runtime and process defaults.
func setupMetrics() (http.Handler, *metrics.SearchMetrics, *metrics.BookingMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewSearchMetrics(reg), metrics.NewBookingMetrics(reg)
}
