package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/kanjiflash/internal/api"
	"github.com/vytor/kanjiflash/internal/config"
	"github.com/vytor/kanjiflash/internal/db"
	"github.com/vytor/kanjiflash/internal/jobs"
	"github.com/vytor/kanjiflash/internal/kanjiapi"
	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/repository/sqlite"
	"github.com/vytor/kanjiflash/internal/services"
	"github.com/vytor/kanjiflash/internal/study"
	"github.com/vytor/kanjiflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("KanjiFlash Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("api_base_url=%s", cfg.APIBaseURL)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("request_timeout=%v", cfg.RequestTimeout)
	log.Debug("fetch_retries=%d", cfg.FetchRetries)
	log.Debug("fetch_retry_interval=%v", cfg.FetchRetryInterval)
	log.Debug("submit_worker_count=%d", cfg.SubmitWorkerCount)
	log.Debug("submit_queue_size=%d", cfg.SubmitQueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	client := kanjiapi.New(cfg.APIBaseURL, cfg.APIToken,
		kanjiapi.WithTimeout(cfg.RequestTimeout),
		kanjiapi.WithRetry(cfg.FetchRetries, cfg.FetchRetryInterval),
	)
	submissionRepo := sqlite.NewSubmissionRepository(database.DB)

	submitPool := worker.NewPool(cfg.SubmitWorkerCount, cfg.SubmitQueueSize)
	gradeQueue := jobs.NewWorkerQueue(submitPool, client, submissionRepo)

	srv := &api.Server{
		StudyService:      services.NewStudyService(client, gradeQueue, study.WithFetchTimeout(cfg.FetchBudget())),
		SubmissionService: services.NewSubmissionService(submissionRepo),
		GradeQueue:        gradeQueue,
		DB:                database,
	}

	submitPool.Start(context.Background())

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchBudget() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

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

	// Grades already queued are still delivered and journaled.
	log.Debug("draining submission pool (%d pending)", submitPool.QueueSize())
	submitPool.Stop()

	log.Info("===========================================")
	log.Info("KanjiFlash Server Stopped")
	log.Info("===========================================")
}
