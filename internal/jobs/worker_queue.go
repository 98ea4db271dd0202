package jobs

import (
	"context"
	"time"

	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/repository"
	"github.com/vytor/kanjiflash/internal/worker"
)

// WorkerQueue implements GradeQueue using a worker pool
type WorkerQueue struct {
	pool    *worker.Pool
	client  worker.GradeClient
	journal repository.SubmissionRepository
	now     func() time.Time
	log     *logger.Logger
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, client worker.GradeClient, journal repository.SubmissionRepository) *WorkerQueue {
	return &WorkerQueue{
		pool:    pool,
		client:  client,
		journal: journal,
		now:     time.Now,
		log:     logger.Default().WithPrefix("grade-queue"),
	}
}

// Dispatch enqueues sub without waiting for delivery. If the pool refuses the
// job the submission is journaled as dropped and the error is returned; report
// is then never called.
func (q *WorkerQueue) Dispatch(sub models.GradeSubmission, report func(error)) error {
	err := q.pool.Submit(&worker.SubmitGradeJob{
		Client:     q.client,
		Journal:    q.journal,
		Submission: sub,
		Report:     report,
		Now:        q.now,
	})
	if err == nil {
		return nil
	}

	log := q.log.WithFields(map[string]any{
		"submission_id": sub.ID,
		"card_id":       sub.CardID,
	})
	log.Warn("grade submission dropped: %v", err)
	if q.journal != nil {
		ctx, cancel := context.WithTimeout(logger.NewContext(context.Background(), log), 5*time.Second)
		defer cancel()
		row := models.Submission{
			GradeSubmission: sub,
			Status:          models.SubmissionDropped,
			Error:           err.Error(),
			CompletedAt:     q.now(),
		}
		if _, jerr := q.journal.Record(ctx, row); jerr != nil {
			log.Error("failed to journal dropped submission: %v", jerr)
		}
	}
	return err
}

func (q *WorkerQueue) Pending() int {
	return q.pool.QueueSize()
}

func (q *WorkerQueue) Capacity() int {
	return q.pool.Capacity()
}

var _ GradeQueue = (*WorkerQueue)(nil)
