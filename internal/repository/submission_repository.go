package repository

import (
	"context"

	"github.com/vytor/kanjiflash/internal/models"
)

// SubmissionRepository journals grade submissions so failures can be
// reconciled later.
type SubmissionRepository interface {
	Record(ctx context.Context, submission models.Submission) (int64, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error)
	CountByStatus(ctx context.Context, sessionID string) (map[models.SubmissionStatus]int, error)
}
