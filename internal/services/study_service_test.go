package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vytor/kanjiflash/internal/errors"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/study"
	"github.com/vytor/kanjiflash/internal/summary"
	"github.com/vytor/kanjiflash/internal/testutil/mocks"
)

func testSession(ids ...int64) *models.StudySession {
	cards := make([]models.StudyCard, 0, len(ids))
	for i, id := range ids {
		cards = append(cards, models.StudyCard{
			ID:        id,
			Character: string(rune('一' + i)),
			Meaning:   "meaning",
			Reading:   "reading",
			IsNew:     i == 0,
		})
	}
	return &models.StudySession{DeckID: 7, DeckTitle: "JLPT N5", Cards: cards, TotalCards: len(cards)}
}

func newTestStudyService(session *models.StudySession, fetchErr error) (StudyService, *mocks.MockStudyClient, *mocks.MockGradeQueue) {
	client := new(mocks.MockStudyClient)
	client.On("FetchSession", mock.Anything, int64(7)).Return(session, fetchErr)
	queue := new(mocks.MockGradeQueue)
	queue.On("Dispatch", mock.Anything).Return(nil)
	return NewStudyService(client, queue), client, queue
}

func requireAppError(t *testing.T, err error, status int) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
}

func TestStudyService_OpenAndGradeThrough(t *testing.T) {
	ctx := context.Background()
	svc, client, queue := newTestStudyService(testSession(101, 102), nil)

	snap, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, study.PhaseActive, snap.Phase)
	require.NotNil(t, snap.Front)
	assert.Equal(t, int64(101), snap.Front.CardID)
	assert.Equal(t, 50.0, snap.Progress)

	again, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, snap.SessionID, again.SessionID)
	client.AssertNumberOfCalls(t, "FetchSession", 1)

	flipped, err := svc.Flip(ctx, 7)
	require.NoError(t, err)
	assert.True(t, flipped.Revealed)
	require.NotNil(t, flipped.Back)

	res, err := svc.Grade(ctx, 7, "good")
	require.NoError(t, err)
	assert.Equal(t, models.Outcome{CardID: 101, Grade: models.GradeGood}, res.Outcome)
	assert.Equal(t, 1, res.Snapshot.Cursor)
	assert.False(t, res.Snapshot.Revealed)

	_, err = svc.Summary(ctx, 7)
	requireAppError(t, err, http.StatusConflict)

	res, err = svc.Grade(ctx, 7, "1")
	require.NoError(t, err)
	assert.Equal(t, study.PhaseComplete, res.Snapshot.Phase)

	sum, err := svc.Summary(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Good)
	assert.Equal(t, 1, sum.Bad)
	assert.Equal(t, 50, sum.SuccessRate)
	assert.Equal(t, summary.TierModerate, sum.Tier)
	queue.AssertNumberOfCalls(t, "Dispatch", 2)
}

func TestStudyService_GradeErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, queue := newTestStudyService(testSession(101), nil)

	_, err := svc.Grade(ctx, 7, "good")
	requireAppError(t, err, http.StatusNotFound)

	_, err = svc.Open(ctx, 7)
	require.NoError(t, err)

	_, err = svc.Grade(ctx, 7, "meh")
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Grade(ctx, 7, "easy")
	require.NoError(t, err)

	_, err = svc.Grade(ctx, 7, "easy")
	requireAppError(t, err, http.StatusConflict)
	queue.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestStudyService_InvalidCardIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _, queue := newTestStudyService(testSession(0), nil)

	_, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	_, err = svc.Grade(ctx, 7, "good")
	requireAppError(t, err, http.StatusUnprocessableEntity)
	queue.AssertNotCalled(t, "Dispatch", mock.Anything)
}

func TestStudyService_FailedLoadThenRestart(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.MockStudyClient)
	client.On("FetchSession", mock.Anything, int64(7)).Return(nil, errors.New("network down")).Once()
	client.On("FetchSession", mock.Anything, int64(7)).Return(testSession(101), nil).Once()
	svc := NewStudyService(client, new(mocks.MockGradeQueue))

	snap, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, study.PhaseErrored, snap.Phase)
	assert.Contains(t, snap.Error, "network down")

	_, err = svc.Grade(ctx, 7, "good")
	requireAppError(t, err, http.StatusConflict)

	restarted, err := svc.Restart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, study.PhaseActive, restarted.Phase)
	assert.NotEqual(t, snap.SessionID, restarted.SessionID)
	client.AssertExpectations(t)
}

func TestStudyService_RestartWhileActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestStudyService(testSession(101, 102), nil)

	_, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	_, err = svc.Restart(ctx, 7)
	requireAppError(t, err, http.StatusConflict)
}

func TestStudyService_NothingDue(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestStudyService(testSession(), nil)

	snap, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, study.PhaseComplete, snap.Phase)
	assert.True(t, snap.NothingDue)

	_, err = svc.Summary(ctx, 7)
	requireAppError(t, err, http.StatusConflict)
}

func TestStudyService_ExitAndValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestStudyService(testSession(101), nil)

	_, err := svc.Open(ctx, 0)
	requireAppError(t, err, http.StatusBadRequest)

	requireAppError(t, svc.Exit(ctx, 7), http.StatusNotFound)

	_, err = svc.Open(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, svc.Exit(ctx, 7))

	_, err = svc.Snapshot(ctx, 7)
	requireAppError(t, err, http.StatusNotFound)
}
