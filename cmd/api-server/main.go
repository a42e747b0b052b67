package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexmed/clinic-booking/internal/api"
	"github.com/alexmed/clinic-booking/internal/booking"
	"github.com/alexmed/clinic-booking/internal/config"
	"github.com/alexmed/clinic-booking/internal/db"
	"github.com/alexmed/clinic-booking/internal/directory"
	"github.com/alexmed/clinic-booking/internal/notification"
	redisclient "github.com/alexmed/clinic-booking/internal/redis"
	"github.com/alexmed/clinic-booking/internal/schedule"
)

const version = "1.0.0"

func main() {
	log := newLogger()
	log.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	// Wire repositories and services
	dirRepo := directory.NewPgRepository(pgPool)
	scheduleRepo := schedule.NewPgRepository(pgPool)
	bookingRepo := booking.NewPgRepository(pgPool)
	notificationStore := notification.NewPgStore(pgPool)

	notifier := notification.NewNotifier(notificationStore, log)
	locker := redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)

	dirService := directory.NewService(dirRepo)
	scheduleService := schedule.NewService(scheduleRepo, dirRepo, log)
	slotGenerator := schedule.NewGenerator(scheduleRepo, bookingRepo, cfg.TimeZone)
	bookingService := booking.NewService(bookingRepo, dirRepo, scheduleRepo, locker, notifier, cfg.TimeZone, log)

	handler := api.NewRouter(api.RouterConfig{
		Bookings:      bookingService,
		Schedules:     scheduleService,
		Slots:         slotGenerator,
		Directory:     dirService,
		Notifications: notificationStore,
		PgPool:        pgPool,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		TimeZone:      cfg.TimeZone,
		Env:           cfg.Env,
		Version:       version,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("api-server stopped")
}

func newLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stdout).With().Timestamp().Str("service", "api-server").Logger()
}
