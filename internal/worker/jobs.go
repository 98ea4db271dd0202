package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/repository"
)

// SubmitGradeJob delivers one grade, journals the result and reports it back
// to whoever dispatched it.
type SubmitGradeJob struct {
	Client     GradeClient
	Journal    repository.SubmissionRepository
	Submission models.GradeSubmission
	Report     func(error)
	Now        func() time.Time
}

func (j *SubmitGradeJob) Name() string {
	return fmt.Sprintf("submit_grade card=%d grade=%s", j.Submission.CardID, j.Submission.Grade)
}

func (j *SubmitGradeJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"submission_id": j.Submission.ID,
		"session_id":    j.Submission.SessionID,
	})

	err := j.Client.SubmitProgress(ctx, j.Submission.ID, j.Submission.CardID, j.Submission.Grade)

	row := models.Submission{
		GradeSubmission: j.Submission,
		Status:          models.SubmissionAcknowledged,
		CompletedAt:     j.now(),
	}
	if err != nil {
		row.Status = models.SubmissionFailed
		row.Error = err.Error()
	}

	if j.Journal != nil {
		// Journal with a fresh context so a cancelled pool still records the outcome.
		jctx, cancel := context.WithTimeout(logger.NewContext(context.Background(), log), 5*time.Second)
		if _, jerr := j.Journal.Record(jctx, row); jerr != nil {
			log.Error("failed to journal submission: %v", jerr)
		}
		cancel()
	}

	if j.Report != nil {
		j.Report(err)
	}
	if err != nil {
		return err
	}
	log.Debug("grade acknowledged")
	return nil
}

func (j *SubmitGradeJob) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}
