package models

import "time"

// SubmissionStatus is the final state of a journaled grade submission.
type SubmissionStatus string

const (
	SubmissionAcknowledged SubmissionStatus = "acknowledged"
	SubmissionFailed       SubmissionStatus = "failed"
	SubmissionDropped      SubmissionStatus = "dropped" // never left the local queue
)

// Submission is a journal row: a dispatched grade and what became of it.
type Submission struct {
	JournalID int64 `json:"journal_id"`
	GradeSubmission
	Status      SubmissionStatus `json:"status"`
	Error       string           `json:"error,omitempty"`
	CompletedAt time.Time        `json:"completed_at"`
}

type SubmissionFilter struct {
	DeckID    int64
	SessionID string
	Status    SubmissionStatus
	Limit     int
	Offset    int
}
