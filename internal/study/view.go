package study

import (
	"fmt"

	"github.com/vytor/kanjiflash/internal/models"
)

// Snapshot is a read-only view of a controller for rendering. Front is set
// only while a card is presented; Back only once that card is flipped.
type Snapshot struct {
	DeckID       int64      `json:"deck_id"`
	DeckTitle    string     `json:"deck_title"`
	SessionID    string     `json:"session_id"`
	Phase        Phase      `json:"phase"`
	Cursor       int        `json:"cursor"`
	Position     int        `json:"position,omitempty"`
	QueueLength  int        `json:"queue_length"`
	Total        int        `json:"total"`
	Progress     float64    `json:"progress"`
	Front        *CardFront `json:"front,omitempty"`
	Back         *CardBack  `json:"back,omitempty"`
	Revealed     bool       `json:"revealed"`
	Answered     int        `json:"answered"`
	Pending      int        `json:"pending_submissions"`
	Acknowledged int        `json:"acknowledged_submissions"`
	Failed       int        `json:"failed_submissions"`
	NothingDue   bool       `json:"nothing_due"`
	Error        string     `json:"error,omitempty"`
}

type CardFront struct {
	CardID      int64    `json:"card_id"`
	Character   string   `json:"character"`
	StrokeCount int      `json:"stroke_count"`
	Frequency   int      `json:"frequency"`
	Badges      []string `json:"badges"`
}

type CardBack struct {
	Meaning string `json:"meaning"`
	Reading string `json:"reading"`
}

func frontOf(card models.StudyCard) CardFront {
	badges := make([]string, 0, 3)
	if card.IsNew {
		badges = append(badges, "New!")
	}
	if card.IsDue {
		badges = append(badges, "Review Due!")
	}
	badges = append(badges, fmt.Sprintf("Grade %d", card.Grade))
	return CardFront{
		CardID:      card.ID,
		Character:   card.Character,
		StrokeCount: card.StrokeCount,
		Frequency:   card.Frequency,
		Badges:      badges,
	}
}

func backOf(card models.StudyCard) CardBack {
	return CardBack{Meaning: card.Meaning, Reading: card.Reading}
}
