package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/chordflash/internal/api"
	"github.com/vytor/chordflash/internal/config"
	"github.com/vytor/chordflash/internal/db"
	"github.com/vytor/chordflash/internal/generator"
	"github.com/vytor/chordflash/internal/jobs"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/prompt"
	"github.com/vytor/chordflash/internal/repository/sqlite"
	"github.com/vytor/chordflash/internal/services"
	"github.com/vytor/chordflash/internal/worker"
	"github.com/vytor/chordflash/web"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("ChordFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("generator=%s", cfg.Generator)
	log.Debug("generator_timeout=%s", cfg.GeneratorTimeout)
	log.Debug("prefetch_worker_count=%d", cfg.PrefetchWorkerCount)
	log.Debug("prefetch_queue_size=%d", cfg.PrefetchQueueSize)
	log.Debug("prefetch_target=%d", cfg.PrefetchTarget)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	p, err := prompt.Load(cfg.PromptPath)
	if err != nil {
		log.Error("failed to load prompt: %v", err)
		os.Exit(1)
	}
	log.Info("using prompt %s", p.ID())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen, err := generator.FromConfig(ctx, cfg)
	if err != nil {
		log.Error("failed to create generator: %v", err)
		os.Exit(1)
	}
	log.Info("using generator %s", gen.Name())

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates(web.FS)
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		log.Error("failed to open static assets: %v", err)
		os.Exit(1)
	}

	// Repositories
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	roundRepo := sqlite.NewRoundRepository(database.DB)
	prefetchRepo := sqlite.NewPrefetchRepository(database.DB)

	// Services and the prefetch pool
	generationService := services.NewGenerationService(gen, p, cfg.GeneratorTimeout)

	var jobQueue jobs.JobQueue
	var prefetchPool *worker.Pool
	if cfg.PrefetchWorkerCount > 0 && cfg.PrefetchTarget > 0 {
		prefetchPool = worker.NewPool(cfg.PrefetchWorkerCount, cfg.PrefetchQueueSize)
		prefetchPool.Start(ctx)
		jobQueue = jobs.NewWorkerQueue(prefetchPool, generationService, prefetchRepo, cfg.PrefetchTarget)
	} else {
		log.Info("prefetch disabled")
	}

	srv := &api.Server{
		QuizService:    services.NewQuizService(generationService, roundRepo, prefetchRepo, jobQueue),
		SessionService: services.NewSessionService(sessionRepo),
		Templates:      tmpl,
		DB:             database,
		Static:         static,
		CORSOrigins:    cfg.CORSOrigins,
	}

	if jobQueue != nil {
		if n, err := jobQueue.EnqueuePrefetch(ctx); err != nil {
			log.Warn("initial prefetch failed: %v", err)
		} else {
			log.Info("queued %d prefetch job(s)", n)
		}
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GeneratorTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Cancel in-flight generator calls, then wait for workers to finish
	cancel()
	if prefetchPool != nil {
		log.Debug("stopping prefetch pool")
		prefetchPool.Stop()
	}

	log.Info("===========================================")
	log.Info("ChordFlash Server Stopped")
	log.Info("===========================================")
}
