package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kanjiflash/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		APIBaseURL:         "http://localhost:3001",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		RequestTimeout:     15 * time.Second,
		FetchRetries:       3,
		FetchRetryInterval: time.Second,
		SubmitWorkerCount:  2,
		SubmitQueueSize:    64,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_BadBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.APIBaseURL = "not a url"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "TRACE"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_OutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		envVar string
	}{
		{"zero workers", func(c *config.Config) { c.SubmitWorkerCount = 0 }, "SUBMIT_WORKER_COUNT"},
		{"too many workers", func(c *config.Config) { c.SubmitWorkerCount = 100 }, "SUBMIT_WORKER_COUNT"},
		{"zero queue", func(c *config.Config) { c.SubmitQueueSize = 0 }, "SUBMIT_QUEUE_SIZE"},
		{"negative retries", func(c *config.Config) { c.FetchRetries = -1 }, "FETCH_RETRIES"},
		{"zero timeout", func(c *config.Config) { c.RequestTimeout = 0 }, "REQUEST_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.envVar)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "API_BASE_URL", "DB_PATH", "LOG_LEVEL", "REQUEST_TIMEOUT",
		"FETCH_RETRIES", "FETCH_RETRY_INTERVAL", "SUBMIT_WORKER_COUNT", "SUBMIT_QUEUE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:3001", cfg.APIBaseURL)
	assert.Equal(t, "file:kanjiflash.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.FetchRetries)
	assert.Equal(t, time.Second, cfg.FetchRetryInterval)
	assert.Equal(t, 2, cfg.SubmitWorkerCount)
	assert.Equal(t, 64, cfg.SubmitQueueSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://kanji.example.com/")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FETCH_RETRIES", "5")
	t.Setenv("FETCH_RETRY_INTERVAL", "250ms")
	t.Setenv("SUBMIT_QUEUE_SIZE", "nope")

	cfg := config.Load()

	assert.Equal(t, "https://kanji.example.com", cfg.APIBaseURL)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 5, cfg.FetchRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.FetchRetryInterval)
	assert.Equal(t, 64, cfg.SubmitQueueSize, "invalid int falls back to default")
}

func TestFetchBudget(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 4*15*time.Second+3*time.Second, cfg.FetchBudget())

	cfg.FetchRetries = 0
	assert.Equal(t, 15*time.Second, cfg.FetchBudget())
}
