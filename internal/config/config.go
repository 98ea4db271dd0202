package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string        `validate:"required"`
	APIBaseURL         string        `validate:"required,url"`
	APIToken           string
	DBPath             string        `validate:"required"`
	LogLevel           string        `validate:"required,oneof=DEBUG INFO WARN WARNING ERROR"`
	RequestTimeout     time.Duration `validate:"gt=0"`
	FetchRetries       int           `validate:"gte=0,lte=10"`
	FetchRetryInterval time.Duration `validate:"gte=0"`
	SubmitWorkerCount  int           `validate:"gt=0,lte=32"`
	SubmitQueueSize    int           `validate:"gt=0"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		APIBaseURL:         strings.TrimRight(envOr("API_BASE_URL", "http://localhost:3001"), "/"),
		APIToken:           os.Getenv("API_TOKEN"),
		DBPath:             envOr("DB_PATH", "file:kanjiflash.db"),
		LogLevel:           strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		RequestTimeout:     envDurationOr("REQUEST_TIMEOUT", 15*time.Second),
		FetchRetries:       envIntOr("FETCH_RETRIES", 3),
		FetchRetryInterval: envDurationOr("FETCH_RETRY_INTERVAL", time.Second),
		SubmitWorkerCount:  envIntOr("SUBMIT_WORKER_COUNT", 2),
		SubmitQueueSize:    envIntOr("SUBMIT_QUEUE_SIZE", 64),
	}
}

// FetchBudget is the longest a queue fetch can take with every retry used.
func (c Config) FetchBudget() time.Duration {
	return c.RequestTimeout*time.Duration(c.FetchRetries+1) + c.FetchRetryInterval*time.Duration(c.FetchRetries)
}

var validate = validator.New()

// Validate checks the loaded values and reports the first offending
// environment variable.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	name := envNames[fe.Field()]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s cannot be empty", name)
	case "url":
		return fmt.Errorf("%s must be an absolute URL, got %q", name, fe.Value())
	case "oneof":
		return fmt.Errorf("%s must be one of DEBUG, INFO, WARN, ERROR, got %q", name, fe.Value())
	default:
		return fmt.Errorf("%s is out of range (%s=%s), got %v", name, fe.Tag(), fe.Param(), fe.Value())
	}
}

var envNames = map[string]string{
	"Addr":               "ADDR",
	"APIBaseURL":         "API_BASE_URL",
	"APIToken":           "API_TOKEN",
	"DBPath":             "DB_PATH",
	"LogLevel":           "LOG_LEVEL",
	"RequestTimeout":     "REQUEST_TIMEOUT",
	"FetchRetries":       "FETCH_RETRIES",
	"FetchRetryInterval": "FETCH_RETRY_INTERVAL",
	"SubmitWorkerCount":  "SUBMIT_WORKER_COUNT",
	"SubmitQueueSize":    "SUBMIT_QUEUE_SIZE",
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
