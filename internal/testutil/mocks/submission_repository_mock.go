package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/kanjiflash/internal/models"
)

// MockSubmissionRepository is a mock implementation of repository.SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Record(ctx context.Context, submission models.Submission) (int64, error) {
	args := m.Called(ctx, submission)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) CountByStatus(ctx context.Context, sessionID string) (map[models.SubmissionStatus]int, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.SubmissionStatus]int), args.Error(1)
}
