// Package kanjiapi talks to the remote study service that hands out card
// queues and records grades.
package kanjiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-retry"

	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/study"
)

var validate = validator.New()

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("study service status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) transient() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	retries    uint64
	interval   time.Duration
	log        *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry sets how many times a transient failure is retried and the pause
// between attempts.
func WithRetry(retries int, interval time.Duration) Option {
	return func(c *Client) {
		if retries < 0 {
			retries = 0
		}
		c.retries = uint64(retries)
		c.interval = interval
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		token:      token,
		retries:    3,
		interval:   time.Second,
		log:        logger.Default().WithPrefix("kanjiapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSession loads the card queue for deckID. The body may be wrapped in a
// {"session": ...} envelope or be the bare session object.
func (c *Client) FetchSession(ctx context.Context, deckID int64) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("kanjiapi").WithField("deck_id", deckID)
	url := fmt.Sprintf("%s/api/v1/decks/%d/study", c.baseURL, deckID)

	var body []byte
	attempt := 0
	err := c.withRetry(ctx, func(ctx context.Context) error {
		attempt++
		log.Debug("fetching study session from: %s (attempt %d)", url, attempt)
		var err error
		body, err = c.do(ctx, http.MethodGet, url, nil, "")
		return err
	})
	if err != nil {
		log.Error("failed to fetch study session after %d attempts: %v", attempt, err)
		return nil, err
	}

	session, err := decodeSession(body)
	if err != nil {
		log.Error("rejecting study session payload: %v", err)
		return nil, err
	}

	log.Info("fetched study session: deck=%q, cards=%d, declared_total=%d", session.DeckTitle, len(session.Cards), session.TotalCards)
	return session, nil
}

func decodeSession(body []byte) (*models.StudySession, error) {
	var envelope struct {
		Session json.RawMessage `json:"session"`
	}
	payload := body
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Session) > 0 && string(envelope.Session) != "null" {
		payload = envelope.Session
	}

	var session models.StudySession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", study.ErrMalformedSession, err)
	}
	if err := validate.Struct(session); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s failed %q", study.ErrMalformedSession, verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", study.ErrMalformedSession, err)
	}
	return &session, nil
}

type progressRequest struct {
	KanjiID int64        `json:"kanjiId"`
	Grade   models.Grade `json:"grade"`
}

// SubmitProgress records one grade. submissionID is sent as X-Request-ID so
// a retried delivery can be recognised by the service.
func (c *Client) SubmitProgress(ctx context.Context, submissionID string, cardID int64, grade models.Grade) error {
	log := logger.FromContext(ctx).WithPrefix("kanjiapi").WithFields(map[string]any{
		"card_id": cardID,
		"grade":   grade,
	})
	url := c.baseURL + "/api/v1/study/progress"

	payload, err := json.Marshal(progressRequest{KanjiID: cardID, Grade: grade})
	if err != nil {
		return err
	}

	start := time.Now()
	err = c.withRetry(ctx, func(ctx context.Context) error {
		_, err := c.do(ctx, http.MethodPost, url, payload, submissionID)
		return err
	})
	if err != nil {
		log.Warn("progress submission failed after %v: %v", time.Since(start), err)
		return err
	}
	log.Debug("progress recorded in %v", time.Since(start))
	return nil
}

func (c *Client) withRetry(ctx context.Context, fn func(context.Context) error) error {
	interval := c.interval
	if interval <= 0 {
		interval = time.Millisecond // NewConstant panics on a non-positive wait
	}
	backoff := retry.WithMaxRetries(c.retries, retry.NewConstant(interval))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if statusErr.transient() {
				return retry.RetryableError(err)
			}
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, requestID string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.log.Debug("%s %s responded in %v, status=%d", method, url, time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(excerpt)}
	}
	return io.ReadAll(resp.Body)
}
