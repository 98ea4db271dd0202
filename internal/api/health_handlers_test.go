package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/kanjiflash/internal/testutil/mocks"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	s := &Server{}
	rec := do(t, s.Routes(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReady(t *testing.T) {
	queue := new(mocks.MockGradeQueue)
	queue.On("Pending").Return(3)
	queue.On("Capacity").Return(64)

	s := &Server{GradeQueue: queue, DB: stubPinger{}}
	rec := do(t, s.Routes(), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, float64(3), body["pending_submissions"])
	assert.Equal(t, float64(64), body["queue_capacity"])

	s.DB = stubPinger{err: errors.New("database is locked")}
	rec = do(t, s.Routes(), http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
