package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/testutil/mocks"
	"github.com/vytor/kanjiflash/internal/worker"
)

func submission(id string, card int64) models.GradeSubmission {
	return models.GradeSubmission{
		ID:           id,
		SessionID:    "sess-1",
		DeckID:       7,
		CardID:       card,
		Grade:        models.GradeEasy,
		DispatchedAt: time.Now(),
	}
}

func TestWorkerQueue_DispatchDeliversInBackground(t *testing.T) {
	client := new(mocks.MockStudyClient)
	journal := new(mocks.MockSubmissionRepository)
	client.On("SubmitProgress", mock.Anything, mock.Anything, mock.Anything, models.GradeEasy).Return(nil)
	journal.On("Record", mock.Anything, mock.Anything).Return(int64(1), nil)

	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())
	q := NewWorkerQueue(pool, client, journal)

	var mu sync.Mutex
	var reports []error
	for i := 0; i < 3; i++ {
		err := q.Dispatch(submission("sub", int64(100+i)), func(err error) {
			mu.Lock()
			reports = append(reports, err)
			mu.Unlock()
		})
		require.NoError(t, err)
	}

	pool.Stop()
	assert.Len(t, reports, 3)
	for _, err := range reports {
		assert.NoError(t, err)
	}
	client.AssertNumberOfCalls(t, "SubmitProgress", 3)
	journal.AssertNumberOfCalls(t, "Record", 3)
}

func TestWorkerQueue_FullQueueJournalsDropped(t *testing.T) {
	client := new(mocks.MockStudyClient)
	journal := new(mocks.MockSubmissionRepository)
	journal.On("Record", mock.Anything, mock.MatchedBy(func(s models.Submission) bool {
		return s.GradeSubmission.ID == "sub-2" && s.Status == models.SubmissionDropped &&
			s.Error == worker.ErrQueueFull.Error()
	})).Return(int64(2), nil).Once()

	pool := worker.NewPool(1, 1)
	q := NewWorkerQueue(pool, client, journal)

	reported := false
	require.NoError(t, q.Dispatch(submission("sub-1", 101), func(error) {}))
	err := q.Dispatch(submission("sub-2", 102), func(error) { reported = true })

	assert.ErrorIs(t, err, worker.ErrQueueFull)
	assert.False(t, reported)
	assert.Equal(t, 1, q.Pending())
	assert.Equal(t, 1, q.Capacity())
	journal.AssertExpectations(t)
	client.AssertNotCalled(t, "SubmitProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
