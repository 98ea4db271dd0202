package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/kanjiflash/internal/models"
)

// MockStudyClient is a mock implementation of kanjiapi.ClientInterface
type MockStudyClient struct {
	mock.Mock
}

func (m *MockStudyClient) FetchSession(ctx context.Context, deckID int64) (*models.StudySession, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudySession), args.Error(1)
}

func (m *MockStudyClient) SubmitProgress(ctx context.Context, submissionID string, cardID int64, grade models.Grade) error {
	args := m.Called(ctx, submissionID, cardID, grade)
	return args.Error(0)
}
