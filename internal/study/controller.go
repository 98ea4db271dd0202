// Package study drives a single study session: it presents the cards of a
// fetched queue in order, records one outcome per graded card and hands each
// grade to a dispatcher without waiting for it.
package study

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/vytor/kanjiflash/internal/logger"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/summary"
)

// SessionSource supplies the card queue for a deck.
type SessionSource interface {
	FetchSession(ctx context.Context, deckID int64) (*models.StudySession, error)
}

// Dispatcher forwards a grade to the study service in the background.
// Dispatch must not block on network I/O. When it returns nil, report is
// called exactly once with the submission result. When it returns an error,
// report is never called.
type Dispatcher interface {
	Dispatch(sub models.GradeSubmission, report func(error)) error
}

const defaultFetchTimeout = time.Minute

// Controller owns the cursor, the outcomes and the lifecycle of one deck's
// study session. Every transition happens under a single mutex; the queue
// fetch and grade submission run outside it.
type Controller struct {
	deckID     int64
	source     SessionSource
	dispatcher Dispatcher
	log        *logger.Logger
	now        func() time.Time
	newID      func() string

	fetchTimeout time.Duration

	fetches singleflight.Group

	mu           sync.Mutex
	instance     string
	state        State
	session      *models.StudySession
	outcomes     []models.Outcome
	revealed     bool
	dispatched   int
	acknowledged int
	failed       int
}

type Option func(*Controller)

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithFetchTimeout bounds a queue fetch, retries included.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// NewController returns a controller in the Loading state. Call Load to fetch
// the queue.
func NewController(deckID int64, source SessionSource, dispatcher Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		deckID:     deckID,
		source:     source,
		dispatcher: dispatcher,
		log:        logger.Default(),
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },

		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithPrefix("study").WithField("deck_id", deckID)
	c.instance = c.newID()
	c.state = loading()
	return c
}

func (c *Controller) DeckID() int64 {
	return c.deckID
}

// Load fetches the card queue for the current session instance and leaves
// Loading for Active(0), Complete (empty queue) or Errored. Concurrent calls
// share one fetch, which runs detached from ctx and is bounded by the fetch
// timeout; a caller whose ctx ends stops waiting but the fetch still lands.
// Load outside Loading does nothing.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != PhaseLoading {
		c.mu.Unlock()
		return nil
	}
	instance := c.instance
	c.mu.Unlock()

	ch := c.fetches.DoChan(instance, func() (any, error) {
		return nil, c.fetch(ctx, instance)
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.log.Debug("joined in-flight session fetch: session_id=%s", instance)
		}
		return res.Err
	case <-ctx.Done():
		c.log.Debug("stopped waiting for session fetch: session_id=%s: %v", instance, ctx.Err())
		return ctx.Err()
	}
}

// fetch runs once per instance and applies its result before the flight
// ends, so a Load arriving afterwards sees the new state.
func (c *Controller) fetch(parent context.Context, instance string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.fetchTimeout)
	defer cancel()

	c.log.Debug("fetching study session: session_id=%s", instance)
	session, err := c.source.FetchSession(ctx, c.deckID)
	if err == nil && (session == nil || session.Cards == nil) {
		err = ErrMalformedSession
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.instance != instance || c.state.Phase != PhaseLoading {
		c.log.Debug("discarding fetch for superseded session %s", instance)
		return nil
	}

	if err != nil {
		c.log.Warn("failed to load study session: %v", err)
		c.state = errored(err)
		return err
	}

	cards := make([]models.StudyCard, len(session.Cards))
	copy(cards, session.Cards)
	loaded := *session
	loaded.Cards = cards
	c.session = &loaded

	if len(cards) == 0 {
		c.log.Info("no cards due: deck=%q", loaded.DeckTitle)
		c.state = complete(true)
		return nil
	}

	c.log.Info("study session loaded: deck=%q, cards=%d, declared_total=%d", loaded.DeckTitle, len(cards), loaded.TotalCards)
	c.state = active(0)
	return nil
}

// SubmitGrade records grade for the current card, advances the cursor and
// dispatches the grade. The outcome is appended before the cursor moves.
// Outside Active it returns ErrNotActive and changes nothing.
func (c *Controller) SubmitGrade(grade models.Grade) (models.Outcome, error) {
	if !grade.Valid() {
		return models.Outcome{}, fmt.Errorf("%w: %q", ErrInvalidGrade, string(grade))
	}

	c.mu.Lock()
	card, ok := c.currentLocked()
	if !ok {
		state := c.state
		c.mu.Unlock()
		c.log.Debug("ignoring grade %s in state %s", grade, state)
		return models.Outcome{}, ErrNotActive
	}
	cursor := c.state.Cursor
	if card.ID <= 0 {
		c.mu.Unlock()
		c.log.Error("refusing to grade card without identity: position=%d, character=%q, id=%d", cursor, card.Character, card.ID)
		return models.Outcome{}, fmt.Errorf("%w: position %d (%q) has id %d", ErrInvalidCardID, cursor, card.Character, card.ID)
	}

	outcome := models.Outcome{CardID: card.ID, Grade: grade}
	c.outcomes = append(c.outcomes, outcome)
	c.revealed = false
	if cursor+1 == len(c.session.Cards) {
		c.state = complete(false)
	} else {
		c.state = active(cursor + 1)
	}

	sub := models.GradeSubmission{
		ID:           c.newID(),
		SessionID:    c.instance,
		DeckID:       c.deckID,
		CardID:       card.ID,
		Grade:        grade,
		Position:     cursor,
		DispatchedAt: c.now(),
	}
	c.dispatched++
	next := c.state
	c.mu.Unlock()

	c.log.Debug("graded card: card_id=%d, grade=%s, position=%d, next=%s", card.ID, grade, cursor, next)
	c.dispatch(sub)
	return outcome, nil
}

func (c *Controller) dispatch(sub models.GradeSubmission) {
	if c.dispatcher == nil {
		c.reportSubmission(sub, fmt.Errorf("no dispatcher configured"))
		return
	}
	if err := c.dispatcher.Dispatch(sub, func(err error) { c.reportSubmission(sub, err) }); err != nil {
		c.reportSubmission(sub, err)
	}
}

func (c *Controller) reportSubmission(sub models.GradeSubmission, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub.SessionID != c.instance {
		c.log.Debug("submission %s finished after restart, not counted (err=%v)", sub.ID, err)
		return
	}
	if err != nil {
		c.failed++
		c.log.Warn("grade submission failed: card_id=%d, grade=%s, submission_id=%s: %v", sub.CardID, sub.Grade, sub.ID, err)
		return
	}
	c.acknowledged++
}

// Restart discards the outcomes and queue of a finished or errored session
// and loads a fresh queue under a new session id. While Loading it joins the
// in-flight fetch; while Active it returns ErrSessionInProgress.
func (c *Controller) Restart(ctx context.Context) error {
	c.mu.Lock()
	switch c.state.Phase {
	case PhaseActive:
		c.mu.Unlock()
		return ErrSessionInProgress
	case PhaseLoading:
		c.mu.Unlock()
		return c.Load(ctx)
	}

	previous := c.instance
	c.instance = c.newID()
	c.session = nil
	c.outcomes = nil
	c.revealed = false
	c.dispatched, c.acknowledged, c.failed = 0, 0, 0
	c.state = loading()
	c.mu.Unlock()

	c.log.Info("restarting study session: previous=%s", previous)
	return c.Load(ctx)
}

// CurrentCard returns the card awaiting a grade. ok is false unless Active.
func (c *Controller) CurrentCard() (models.StudyCard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Controller) currentLocked() (models.StudyCard, bool) {
	if c.state.Phase != PhaseActive || c.session == nil {
		return models.StudyCard{}, false
	}
	if c.state.Cursor < 0 || c.state.Cursor >= len(c.session.Cards) {
		return models.StudyCard{}, false
	}
	return c.session.Cards[c.state.Cursor], true
}

// Flip turns the current card over and returns whether its back is showing.
func (c *Controller) Flip() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.currentLocked(); !ok {
		return false, ErrNotActive
	}
	c.revealed = !c.revealed
	return c.revealed, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID identifies the current session instance. It changes on restart.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance
}

// Outcomes returns a copy of the outcomes in grading order.
func (c *Controller) Outcomes() []models.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Outcome, len(c.outcomes))
	copy(out, c.outcomes)
	return out
}

// Summary aggregates the outcomes of a graded-out session.
func (c *Controller) Summary() (summary.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseComplete {
		return summary.Summary{}, ErrNotComplete
	}
	if c.state.NothingDue {
		return summary.Summary{}, ErrNothingDue
	}
	s := summary.Summarize(c.outcomes, c.session.TotalCards)
	s.DeckTitle = c.session.DeckTitle
	return s, nil
}

// Snapshot captures the presentation state of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		DeckID:       c.deckID,
		SessionID:    c.instance,
		Phase:        c.state.Phase,
		Answered:     len(c.outcomes),
		Pending:      c.dispatched - c.acknowledged - c.failed,
		Acknowledged: c.acknowledged,
		Failed:       c.failed,
		NothingDue:   c.state.NothingDue,
	}
	if c.state.Err != nil {
		snap.Error = c.state.Err.Error()
	}
	if c.session == nil {
		return snap
	}

	snap.DeckTitle = c.session.DeckTitle
	snap.QueueLength = len(c.session.Cards)
	snap.Total = summary.ValidTotal(c.session.TotalCards, len(c.session.Cards))

	if card, ok := c.currentLocked(); ok {
		snap.Cursor = c.state.Cursor
		snap.Position = c.state.Cursor + 1
		snap.Progress = float64(snap.Position) / float64(snap.Total) * 100
		front := frontOf(card)
		snap.Front = &front
		snap.Revealed = c.revealed
		if c.revealed {
			back := backOf(card)
			snap.Back = &back
		}
	} else if c.state.Phase == PhaseComplete {
		snap.Cursor = len(c.session.Cards)
		snap.Progress = 100
	}
	return snap
}
