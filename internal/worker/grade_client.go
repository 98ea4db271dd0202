package worker

import (
	"context"

	"github.com/vytor/kanjiflash/internal/models"
)

// GradeClient sends one grade to the study service.
// This avoids import cycles by not importing the kanjiapi package
type GradeClient interface {
	SubmitProgress(ctx context.Context, submissionID string, cardID int64, grade models.Grade) error
}
