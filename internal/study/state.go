package study

import (
	"errors"
	"fmt"
)

var (
	// ErrNotActive is returned by operations that need a presented card when
	// the session is loading, complete or errored. Nothing is mutated.
	ErrNotActive = errors.New("session is not accepting grades")
	// ErrInvalidGrade rejects a value outside bad/hard/good/easy.
	ErrInvalidGrade = errors.New("invalid grade")
	// ErrInvalidCardID means the current card carries no positive id, so its
	// grade cannot be attributed. The card is not graded and not submitted.
	ErrInvalidCardID = errors.New("card has no usable identity")
	// ErrSessionInProgress rejects a restart while cards remain ungraded.
	ErrSessionInProgress = errors.New("session still in progress")
	// ErrNotComplete is returned by Summary before the last card is graded.
	ErrNotComplete = errors.New("session is not complete")
	// ErrNothingDue is returned by Summary when the queue was empty.
	ErrNothingDue = errors.New("no cards were due for study")
	// ErrMalformedSession marks a fetched session that has no card list.
	ErrMalformedSession = errors.New("malformed study session")
)

// Phase tags the variant of State.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseActive
	PhaseComplete
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	case PhaseErrored:
		return "errored"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "loading":
		*p = PhaseLoading
	case "active":
		*p = PhaseActive
	case "complete":
		*p = PhaseComplete
	case "errored":
		*p = PhaseErrored
	default:
		return fmt.Errorf("unknown session phase %q", string(b))
	}
	return nil
}

// State is the session lifecycle: Loading, Active(cursor), Complete or
// Errored. Cursor is only meaningful while Active, NothingDue only while
// Complete and Err only while Errored.
type State struct {
	Phase      Phase
	Cursor     int
	NothingDue bool
	Err        error
}

func loading() State { return State{Phase: PhaseLoading} }

func active(cursor int) State { return State{Phase: PhaseActive, Cursor: cursor} }

func complete(nothingDue bool) State { return State{Phase: PhaseComplete, NothingDue: nothingDue} }

func errored(err error) State { return State{Phase: PhaseErrored, Err: err} }

func (s State) String() string {
	switch s.Phase {
	case PhaseActive:
		return fmt.Sprintf("active(%d)", s.Cursor)
	case PhaseComplete:
		if s.NothingDue {
			return "complete(nothing due)"
		}
		return "complete"
	case PhaseErrored:
		return fmt.Sprintf("errored(%v)", s.Err)
	default:
		return s.Phase.String()
	}
}
