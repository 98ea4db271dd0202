package kanjiapi

import (
	"context"

	"github.com/vytor/kanjiflash/internal/models"
)

// ClientInterface defines the operations of the remote study service.
type ClientInterface interface {
	FetchSession(ctx context.Context, deckID int64) (*models.StudySession, error)
	SubmitProgress(ctx context.Context, submissionID string, cardID int64, grade models.Grade) error
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
