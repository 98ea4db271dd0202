package jobs

import "github.com/vytor/kanjiflash/internal/models"

// GradeQueue hands grade submissions to background workers. It satisfies
// study.Dispatcher.
type GradeQueue interface {
	Dispatch(sub models.GradeSubmission, report func(error)) error
	Pending() int
	Capacity() int
}
