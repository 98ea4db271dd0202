package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/testutil/mocks"
)

func TestSubmissionService_List(t *testing.T) {
	repo := new(mocks.MockSubmissionRepository)
	repo.On("List", mock.Anything, models.SubmissionFilter{DeckID: 7, Limit: 500}).Return(nil, nil)
	svc := NewSubmissionService(repo)

	subs, err := svc.List(context.Background(), models.SubmissionFilter{DeckID: 7, Limit: 1000})
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
	repo.AssertExpectations(t)
}

func TestSubmissionService_ListValidation(t *testing.T) {
	svc := NewSubmissionService(new(mocks.MockSubmissionRepository))

	_, err := svc.List(context.Background(), models.SubmissionFilter{Status: "lost"})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.List(context.Background(), models.SubmissionFilter{Offset: -1})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestSubmissionService_StatsError(t *testing.T) {
	repo := new(mocks.MockSubmissionRepository)
	repo.On("CountByStatus", mock.Anything, "sess-1").Return(nil, errors.New("locked"))
	svc := NewSubmissionService(repo)

	_, err := svc.Stats(context.Background(), "sess-1")
	requireAppError(t, err, http.StatusInternalServerError)
}
