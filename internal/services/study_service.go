package services

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/vytor/kanjiflash/internal/errors"
	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/study"
	"github.com/vytor/kanjiflash/internal/summary"
)

// StudyService keeps one study session per deck and drives it on behalf of a
// presentation layer.
type StudyService interface {
	Open(ctx context.Context, deckID int64) (study.Snapshot, error)
	Snapshot(ctx context.Context, deckID int64) (study.Snapshot, error)
	Flip(ctx context.Context, deckID int64) (study.Snapshot, error)
	Grade(ctx context.Context, deckID int64, grade string) (*GradeResult, error)
	Restart(ctx context.Context, deckID int64) (study.Snapshot, error)
	Summary(ctx context.Context, deckID int64) (*summary.Summary, error)
	Exit(ctx context.Context, deckID int64) error
}

// GradeResult is the recorded outcome and the session after the cursor moved.
type GradeResult struct {
	Outcome  models.Outcome `json:"outcome"`
	Snapshot study.Snapshot `json:"session"`
}

type studyService struct {
	source     study.SessionSource
	dispatcher study.Dispatcher
	opts       []study.Option

	mu       sync.Mutex
	sessions map[int64]*study.Controller
}

// NewStudyService creates a new StudyService. opts apply to every session
// controller it opens.
func NewStudyService(source study.SessionSource, dispatcher study.Dispatcher, opts ...study.Option) StudyService {
	return &studyService{
		source:     source,
		dispatcher: dispatcher,
		opts:       opts,
		sessions:   make(map[int64]*study.Controller),
	}
}

// Open starts a session for deckID, or returns the one already open. A failed
// fetch is not an error here: the snapshot comes back in the errored phase.
func (s *studyService) Open(ctx context.Context, deckID int64) (study.Snapshot, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	if deckID <= 0 {
		return study.Snapshot{}, errors.NewValidationError("deck_id", "must be positive")
	}

	s.mu.Lock()
	c, ok := s.sessions[deckID]
	if !ok {
		log.Info("opening study session")
		c = study.NewController(deckID, s.source, s.dispatcher, s.opts...)
		s.sessions[deckID] = c
	}
	s.mu.Unlock()

	if err := c.Load(ctx); err != nil {
		log.Warn("study session failed to load: %v", err)
	}
	return c.Snapshot(), nil
}

func (s *studyService) Snapshot(ctx context.Context, deckID int64) (study.Snapshot, error) {
	c, err := s.controller(deckID)
	if err != nil {
		return study.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

func (s *studyService) Flip(ctx context.Context, deckID int64) (study.Snapshot, error) {
	c, err := s.controller(deckID)
	if err != nil {
		return study.Snapshot{}, err
	}
	if _, err := c.Flip(); err != nil {
		return study.Snapshot{}, mapStudyError(err)
	}
	return c.Snapshot(), nil
}

func (s *studyService) Grade(ctx context.Context, deckID int64, grade string) (*GradeResult, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)

	g, err := models.ParseGrade(grade)
	if err != nil {
		return nil, errors.NewValidationError("grade", "must be one of bad, hard, good, easy")
	}
	c, err := s.controller(deckID)
	if err != nil {
		return nil, err
	}

	outcome, err := c.SubmitGrade(g)
	if err != nil {
		log.Debug("grade rejected: %v", err)
		return nil, mapStudyError(err)
	}
	return &GradeResult{Outcome: outcome, Snapshot: c.Snapshot()}, nil
}

func (s *studyService) Restart(ctx context.Context, deckID int64) (study.Snapshot, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	c, err := s.controller(deckID)
	if err != nil {
		return study.Snapshot{}, err
	}
	if err := c.Restart(ctx); err != nil {
		if stderrors.Is(err, study.ErrSessionInProgress) {
			return study.Snapshot{}, mapStudyError(err)
		}
		log.Warn("restarted session failed to load: %v", err)
	}
	return c.Snapshot(), nil
}

func (s *studyService) Summary(ctx context.Context, deckID int64) (*summary.Summary, error) {
	c, err := s.controller(deckID)
	if err != nil {
		return nil, err
	}
	sum, err := c.Summary()
	if err != nil {
		return nil, mapStudyError(err)
	}
	return &sum, nil
}

// Exit forgets the deck's session. Submissions already dispatched still
// complete in the background.
func (s *studyService) Exit(ctx context.Context, deckID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[deckID]; !ok {
		return errors.NewNotFoundError("study session", deckID)
	}
	delete(s.sessions, deckID)
	logger.FromContext(ctx).Info("study session closed: deck_id=%d", deckID)
	return nil
}

func (s *studyService) controller(deckID int64) (*study.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[deckID]
	if !ok {
		return nil, errors.NewNotFoundError("study session", deckID)
	}
	return c, nil
}

func mapStudyError(err error) error {
	switch {
	case stderrors.Is(err, study.ErrInvalidGrade):
		return errors.NewValidationError("grade", "must be one of bad, hard, good, easy")
	case stderrors.Is(err, study.ErrInvalidCardID):
		return errors.NewUnprocessableError("current card has no usable identity and cannot be graded", err)
	case stderrors.Is(err, study.ErrNotActive):
		return errors.NewConflictError("session is not presenting a card", err)
	case stderrors.Is(err, study.ErrSessionInProgress):
		return errors.NewConflictError("session still has cards to grade", err)
	case stderrors.Is(err, study.ErrNotComplete):
		return errors.NewConflictError("session is not complete yet", err)
	case stderrors.Is(err, study.ErrNothingDue):
		return errors.NewConflictError("no cards were due for this deck", err)
	}
	return errors.NewInternalError(err)
}
