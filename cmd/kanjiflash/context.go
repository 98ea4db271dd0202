package main

import (
	"context"
	"os"
	"sync"

	"github.com/vytor/kanjiflash/internal/config"
	"github.com/vytor/kanjiflash/internal/db"
	"github.com/vytor/kanjiflash/internal/jobs"
	"github.com/vytor/kanjiflash/internal/kanjiapi"
	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/repository"
	"github.com/vytor/kanjiflash/internal/repository/sqlite"
	"github.com/vytor/kanjiflash/internal/services"
	"github.com/vytor/kanjiflash/internal/study"
	"github.com/vytor/kanjiflash/internal/worker"
)

// commandContext builds the pieces a command needs on first use and tears
// them down once the command returns.
type commandContext struct {
	verbose *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	journalOnce sync.Once
	database    *db.DB
	journal     repository.SubmissionRepository
	journalErr  error

	studyOnce sync.Once
	pool      *worker.Pool
	study     services.StudyService
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{verbose: verbose}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		level := logger.WARN
		if c.verbose != nil && *c.verbose {
			level = logger.DEBUG
		}
		logger.SetDefault(logger.New(
			logger.WithOutput(os.Stderr),
			logger.WithLevel(level),
			logger.WithColors(shouldColorize(os.Stderr)),
		))
		c.config = &cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureJournal() (repository.SubmissionRepository, error) {
	c.journalOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.journalErr = err
			return
		}
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			c.journalErr = err
			return
		}
		c.database = database
		c.journal = sqlite.NewSubmissionRepository(database.DB)
	})
	return c.journal, c.journalErr
}

func (c *commandContext) ensureStudy() (services.StudyService, error) {
	journal, err := c.ensureJournal()
	if err != nil {
		return nil, err
	}
	c.studyOnce.Do(func() {
		cfg := c.config
		client := kanjiapi.New(cfg.APIBaseURL, cfg.APIToken,
			kanjiapi.WithTimeout(cfg.RequestTimeout),
			kanjiapi.WithRetry(cfg.FetchRetries, cfg.FetchRetryInterval),
		)
		c.pool = worker.NewPool(cfg.SubmitWorkerCount, cfg.SubmitQueueSize)
		c.pool.Start(context.Background())
		c.study = services.NewStudyService(client, jobs.NewWorkerQueue(c.pool, client, journal), study.WithFetchTimeout(cfg.FetchBudget()))
	})
	return c.study, nil
}

// close drains outstanding grade submissions before closing the journal.
func (c *commandContext) close() {
	if c.pool != nil {
		c.pool.Stop()
	}
	if c.database != nil {
		_ = c.database.Close()
	}
}
