// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/config"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/database"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/directory"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/handler"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/notify"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/observability"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/repository"
	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/service"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.App.Name, cfg.IsDevelopment(), cfg.App.LogLevel)

	ctx := context.Background()

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("connected to PostgreSQL")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	hosts, err := directory.NewCached(repository.NewDirectoryRepository(pool), cfg.Cache.HostDirectorySize, cfg.Cache.HostDirectoryTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("host directory cache")
	}

	sender, closeSender := newSender(ctx, cfg)
	defer closeSender()

	stores := service.Stores{
		Appointments:  repository.NewAppointmentRepository(pool),
		Slots:         repository.NewAvailabilityRepository(pool),
		Verifications: repository.NewVerificationRepository(pool),
		Activities:    repository.NewActivityRepository(pool),
		Counters:      repository.NewCounterRepository(pool),
		Directory:     hosts,
		Notifications: repository.NewNotificationRepository(pool),
		Tx:            database.NewTxRunner(pool),
	}
	clock := service.SystemClock(cfg.Location())
	mailer := service.NewMailer(notify.NewComposer(cfg.Mail.FromName, cfg.Mail.FromAddress), sender, hosts)

	scheduling := service.NewSchedulingService(stores, mailer, clock)
	availability := service.NewAvailabilityService(stores.Slots)
	gate := service.NewCheckInService(stores, clock)
	notifications := service.NewNotificationService(stores.Notifications)
	sweeper := service.NewSweeper(stores.Appointments, clock)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS(cfg.HTTP.AllowedOrigins))

	r.Get("/health", handler.HealthCheck(pool))

	handler.NewAppointmentHandler(scheduling).Routes(r)
	handler.NewAvailabilityHandler(availability).Routes(r)
	handler.NewVerificationHandler(gate).Routes(r)
	handler.NewNotificationHandler(notifications).Routes(r)

	// ── 4. Schedule the nightly sweep ─────────────────────────────────────
	if cfg.Sweep.Enabled {
		c := cron.New(cron.WithLocation(cfg.Location()))
		_, err := c.AddFunc(cfg.Sweep.Schedule, func() {
			if _, err := sweeper.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("stale appointment sweep failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Sweep.Schedule).Msg("invalid sweep schedule")
		}
		c.Start()
		defer c.Stop()
		log.Info().Str("schedule", cfg.Sweep.Schedule).Str("timezone", cfg.App.Timezone).Msg("sweep scheduled")
	}

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("server stopped")
}

// newSender picks the mail outbox: Redis first, then RabbitMQ, else log only.
// A broker that cannot be reached at startup falls back to logging.
func newSender(ctx context.Context, cfg *config.Config) (notify.Sender, func()) {
	noop := func() {}
	if cfg.Redis.Enabled {
		outbox, err := notify.NewRedisOutbox(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.OutboxKey)
		if err == nil {
			log.Info().Str("addr", cfg.Redis.Addr).Str("key", cfg.Redis.OutboxKey).Msg("mail outbox: redis")
			return outbox, closer(outbox, "redis")
		}
		log.Warn().Err(err).Msg("redis outbox unavailable")
	}
	if cfg.RabbitMQ.Enabled {
		publisher, err := notify.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err == nil {
			log.Info().Str("queue", cfg.RabbitMQ.Queue).Msg("mail outbox: rabbitmq")
			return publisher, closer(publisher, "rabbitmq")
		}
		log.Warn().Err(err).Msg("rabbitmq publisher unavailable")
	}
	log.Warn().Msg("no mail outbox configured; emails will only be logged")
	return notify.LogSender{}, noop
}

func closer(c io.Closer, name string) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("outbox", name).Msg("close failed")
		}
	}
}
