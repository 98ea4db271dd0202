package models

import "time"

// StudyCard is one kanji presented during a session. Immutable once loaded.
type StudyCard struct {
	ID          int64  `json:"id" validate:"gt=0"`
	Character   string `json:"character"`
	Meaning     string `json:"meaning"`
	Reading     string `json:"reading"`
	StrokeCount int    `json:"strokeCount"`
	Grade       int    `json:"grade"` // difficulty tier from the source dataset
	Frequency   int    `json:"frequency"`
	IsNew       bool   `json:"isNew"`
	IsDue       bool   `json:"isDue"`
}

// StudySession is the card queue handed out by the study service for a deck.
// TotalCards is the service's declared total and may disagree with len(Cards).
type StudySession struct {
	DeckID     int64       `json:"deckId"`
	DeckTitle  string      `json:"deckTitle"`
	Cards      []StudyCard `json:"studyCards" validate:"required,dive"`
	TotalCards int         `json:"totalCards"`
}

// Outcome records one graded card.
type Outcome struct {
	CardID int64 `json:"cardId"`
	Grade  Grade `json:"grade"`
}

// GradeSubmission is a single grade on its way to the study service.
type GradeSubmission struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	DeckID       int64     `json:"deck_id"`
	CardID       int64     `json:"card_id"`
	Grade        Grade     `json:"grade"`
	Position     int       `json:"position"`
	DispatchedAt time.Time `json:"dispatched_at"`
}
