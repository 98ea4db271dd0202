package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var submissionColumns = []string{
	"id", "submission_id", "session_id", "deck_id", "card_id", "grade",
	"position", "status", "error", "dispatched_at", "completed_at",
}

type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository implementation
func NewSubmissionRepository(db *sql.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

// Record stores the outcome of a submission. Recording the same submission
// twice replaces the earlier row so a retry's final outcome wins.
func (r *submissionRepository) Record(ctx context.Context, s models.Submission) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	log.Debug("recording submission: id=%s, card_id=%d, status=%s", s.GradeSubmission.ID, s.CardID, s.Status)

	query, args, err := sqlBuilder.Insert("submissions").
		Columns(submissionColumns[1:]...).
		Values(s.GradeSubmission.ID, s.SessionID, s.DeckID, s.CardID, string(s.Grade),
			s.Position, string(s.Status), s.Error, s.DispatchedAt.UTC(), s.CompletedAt.UTC()).
		Suffix(`ON CONFLICT(submission_id) DO UPDATE SET status = excluded.status, error = excluded.error, completed_at = excluded.completed_at`).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	if err := tx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}); err != nil {
		log.Error("failed to record submission: %v", err)
		return 0, err
	}

	// LastInsertId is unreliable for upserts, so read the row id back.
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM submissions WHERE submission_id = ?`, s.GradeSubmission.ID).Scan(&id); err != nil {
		log.Error("failed to read submission id: %v", err)
		return 0, err
	}
	log.Debug("submission recorded: journal_id=%d", id)
	return id, nil
}

func (r *submissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	log.Debug("listing submissions with filter: deck_id=%d, session_id=%s, status=%s",
		filter.DeckID, filter.SessionID, filter.Status)

	query := sqlBuilder.Select(submissionColumns...).From("submissions")

	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.SessionID != "" {
		query = query.Where(squirrel.Eq{"session_id": filter.SessionID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}

	query = query.OrderBy("completed_at DESC", "id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list submissions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var s models.Submission
		var grade, status string
		if err := rows.Scan(&s.JournalID, &s.GradeSubmission.ID, &s.SessionID, &s.DeckID, &s.CardID, &grade,
			&s.Position, &status, &s.Error, &s.DispatchedAt, &s.CompletedAt); err != nil {
			log.Error("failed to scan submission row: %v", err)
			return nil, err
		}
		s.Grade = models.Grade(grade)
		s.Status = models.SubmissionStatus(status)
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating submission rows: %v", err)
		return nil, err
	}
	log.Debug("listed %d submissions", len(submissions))
	return submissions, nil
}

// CountByStatus tallies journaled submissions. An empty sessionID counts
// across all sessions.
func (r *submissionRepository) CountByStatus(ctx context.Context, sessionID string) (map[models.SubmissionStatus]int, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")

	query := sqlBuilder.Select("status", "COUNT(*)").From("submissions").GroupBy("status")
	if sessionID != "" {
		query = query.Where(squirrel.Eq{"session_id": sessionID})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to count submissions: %v", err)
		return nil, err
	}
	defer rows.Close()

	counts := map[models.SubmissionStatus]int{
		models.SubmissionAcknowledged: 0,
		models.SubmissionFailed:       0,
		models.SubmissionDropped:      0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			log.Error("failed to scan count row: %v", err)
			return nil, err
		}
		counts[models.SubmissionStatus(status)] = n
	}
	return counts, rows.Err()
}
