package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/testutil/mocks"
)

func testSubmission() models.GradeSubmission {
	return models.GradeSubmission{
		ID:           "sub-1",
		SessionID:    "sess-1",
		DeckID:       7,
		CardID:       101,
		Grade:        models.GradeGood,
		Position:     0,
		DispatchedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSubmitGradeJob_Acknowledged(t *testing.T) {
	client := new(mocks.MockStudyClient)
	journal := new(mocks.MockSubmissionRepository)
	completed := time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC)

	client.On("SubmitProgress", mock.Anything, "sub-1", int64(101), models.GradeGood).Return(nil)
	journal.On("Record", mock.Anything, mock.MatchedBy(func(s models.Submission) bool {
		return s.GradeSubmission.ID == "sub-1" && s.Status == models.SubmissionAcknowledged &&
			s.Error == "" && s.CompletedAt.Equal(completed)
	})).Return(int64(1), nil)

	var reported []error
	job := &SubmitGradeJob{
		Client:     client,
		Journal:    journal,
		Submission: testSubmission(),
		Report:     func(err error) { reported = append(reported, err) },
		Now:        func() time.Time { return completed },
	}

	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []error{nil}, reported)
	assert.Equal(t, "submit_grade card=101 grade=good", job.Name())
	client.AssertExpectations(t)
	journal.AssertExpectations(t)
}

func TestSubmitGradeJob_FailedIsJournaledAndReported(t *testing.T) {
	client := new(mocks.MockStudyClient)
	journal := new(mocks.MockSubmissionRepository)
	boom := errors.New("connection refused")

	client.On("SubmitProgress", mock.Anything, "sub-1", int64(101), models.GradeGood).Return(boom)
	journal.On("Record", mock.Anything, mock.MatchedBy(func(s models.Submission) bool {
		return s.Status == models.SubmissionFailed && s.Error == "connection refused"
	})).Return(int64(1), nil)

	var reported []error
	job := &SubmitGradeJob{
		Client:     client,
		Journal:    journal,
		Submission: testSubmission(),
		Report:     func(err error) { reported = append(reported, err) },
	}

	assert.ErrorIs(t, job.Run(context.Background()), boom)
	assert.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], boom)
	journal.AssertExpectations(t)
}

func TestSubmitGradeJob_JournalFailureStillReports(t *testing.T) {
	client := new(mocks.MockStudyClient)
	journal := new(mocks.MockSubmissionRepository)

	client.On("SubmitProgress", mock.Anything, "sub-1", int64(101), models.GradeGood).Return(nil)
	journal.On("Record", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	reports := 0
	job := &SubmitGradeJob{
		Client:     client,
		Journal:    journal,
		Submission: testSubmission(),
		Report:     func(err error) { reports++; assert.NoError(t, err) },
	}

	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, reports)
}
