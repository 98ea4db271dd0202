// Package summary computes end-of-session statistics from graded outcomes.
package summary

import (
	"fmt"
	"math"

	"github.com/vytor/kanjiflash/internal/models"
)

// Tier is the qualitative band a success rate falls into.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierHigh      Tier = "high"
	TierModerate  Tier = "moderate"
	TierLow       Tier = "low"
)

// Headline returns the message shown for the tier.
func (t Tier) Headline() string {
	switch t {
	case TierExcellent:
		return "Excellent work!"
	case TierHigh:
		return "Great job!"
	case TierModerate:
		return "Good effort!"
	default:
		return "Keep practicing!"
	}
}

const Closing = "Come back tomorrow for your scheduled reviews!"

type Summary struct {
	DeckTitle       string   `json:"deck_title,omitempty"`
	Bad             int      `json:"bad"`
	Hard            int      `json:"hard"`
	Good            int      `json:"good"`
	Easy            int      `json:"easy"`
	Graded          int      `json:"graded"`
	Total           int      `json:"total"` // denominator actually used for the rate
	Successful      int      `json:"successful"`
	SuccessRate     int      `json:"success_rate"`
	Tier            Tier     `json:"tier"`
	Headline        string   `json:"headline"`
	Recommendations []string `json:"recommendations"`
	Closing         string   `json:"closing"`
}

// Count returns the tally for g.
func (s Summary) Count(g models.Grade) int {
	switch g {
	case models.GradeBad:
		return s.Bad
	case models.GradeHard:
		return s.Hard
	case models.GradeGood:
		return s.Good
	case models.GradeEasy:
		return s.Easy
	}
	return 0
}

// ValidTotal picks the success-rate denominator: the declared total when
// positive, else the number of outcomes, else 1.
func ValidTotal(declaredTotal, graded int) int {
	if declaredTotal > 0 {
		return declaredTotal
	}
	if graded > 0 {
		return graded
	}
	return 1
}

// TierFor maps a success rate to its tier. Bounds are inclusive lower bounds.
func TierFor(rate int) Tier {
	switch {
	case rate >= 90:
		return TierExcellent
	case rate >= 70:
		return TierHigh
	case rate >= 50:
		return TierModerate
	default:
		return TierLow
	}
}

// Summarize tallies outcomes against declaredTotal. A declared total smaller
// than the number of outcomes yields a rate above 100, which is kept as is.
func Summarize(outcomes []models.Outcome, declaredTotal int) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Grade {
		case models.GradeBad:
			s.Bad++
		case models.GradeHard:
			s.Hard++
		case models.GradeGood:
			s.Good++
		case models.GradeEasy:
			s.Easy++
		}
	}
	s.Graded = len(outcomes)
	s.Total = ValidTotal(declaredTotal, s.Graded)
	s.Successful = s.Good + s.Easy
	s.SuccessRate = int(math.Round(100 * float64(s.Successful) / float64(s.Total)))
	s.Tier = TierFor(s.SuccessRate)
	s.Headline = s.Tier.Headline()
	s.Recommendations = recommendations(s)
	s.Closing = Closing
	return s
}

func recommendations(s Summary) []string {
	recs := []string{}
	if s.Bad > 0 {
		recs = append(recs, fmt.Sprintf("Review the %d kanji marked as \"Bad\" - they need more practice", s.Bad))
	}
	if s.Hard > 0 {
		recs = append(recs, fmt.Sprintf("The %d \"Hard\" kanji will appear sooner for review", s.Hard))
	}
	if s.SuccessRate < 70 {
		recs = append(recs, "Consider studying this deck again to improve retention")
	}
	if s.SuccessRate >= 90 {
		recs = append(recs, "Excellent mastery! These kanji will be scheduled for longer intervals")
	}
	return recs
}
