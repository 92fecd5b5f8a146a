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

	"farmacierre/internal/config"
	"farmacierre/internal/infra"
	"farmacierre/internal/middleware"
	"farmacierre/internal/router"
	"farmacierre/internal/service"
	"farmacierre/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Composition root ─────────────────────────────────────────────────────
	cache := infra.NewRedisCache(rdb, cfg.CacheTTL())
	dispatcher := worker.NewDispatcher(rdb)
	svcs := router.NewServices(cfg, db, cache, dispatcher)

	if err := service.Bootstrap(ctx, svcs.TurnoRepo, svcs.CuentaRepo, svcs.UsuarioRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to seed catalogs")
	}

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg, smtpCB)

	if err := middleware.RegisterMetrics(prometheus.DefaultRegisterer, append(worker.Collectors(), infra.Collectors()...)...); err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}
	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register(worker.QueueReporteEmail, worker.JobReporteEmail,
		worker.NewEmailWorker(svcs.Reportes, mailer, cfg.ExportStoragePath))
	pool.Start(ctx)

	scheduler := worker.NewScheduler(cfg.ReporteCron, cfg.Location(), svcs.Reportes).ConLock(rdb)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.ReporteCron).Msg("invalid REPORTE_CRON")
	}

	r := router.New(ctx, router.Deps{
		Config:   cfg,
		Services: svcs,
		DB:       db,
		RDB:      rdb,
		SMTP:     smtpCB,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // report exports
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("farmacierre backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	scheduler.Stop()
	cancel()
	pool.Wait()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev pretty console, prod JSON; level from LOG_LEVEL.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
