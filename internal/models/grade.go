package models

import (
	"fmt"
	"strings"
)

// Grade is the learner's self-reported recall quality for one card.
// Grades are totally ordered: bad < hard < good < easy.
type Grade string

const (
	GradeBad  Grade = "bad"
	GradeHard Grade = "hard"
	GradeGood Grade = "good"
	GradeEasy Grade = "easy"
)

// Grades lists every grade in ascending recall quality.
var Grades = []Grade{GradeBad, GradeHard, GradeGood, GradeEasy}

// ParseGrade accepts a grade name (any case) or its 1-based rank ("1".."4").
func ParseGrade(s string) (Grade, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bad", "1":
		return GradeBad, nil
	case "hard", "2":
		return GradeHard, nil
	case "good", "3":
		return GradeGood, nil
	case "easy", "4":
		return GradeEasy, nil
	}
	return "", fmt.Errorf("unknown grade %q", s)
}

// Valid reports whether g is one of the four grades.
func (g Grade) Valid() bool {
	return g.Rank() > 0
}

// Rank returns 1..4 for bad..easy and 0 for an invalid grade.
func (g Grade) Rank() int {
	switch g {
	case GradeBad:
		return 1
	case GradeHard:
		return 2
	case GradeGood:
		return 3
	case GradeEasy:
		return 4
	default:
		return 0
	}
}

// Less orders grades by recall quality.
func (g Grade) Less(other Grade) bool {
	return g.Rank() < other.Rank()
}

// Successful reports whether the grade counts toward the success rate.
func (g Grade) Successful() bool {
	return g == GradeGood || g == GradeEasy
}

func (g Grade) String() string {
	return string(g)
}
