// Package grading derives totals, letter grades and GPA from the six raw
// component scores of a course result.
//
// Components are scored on a 100 point scale: two quizzes and two
// assignments of 10 points each, a 25 point midterm and a 35 point final.
package grading

import (
	"errors"
	"fmt"
	"math"
)

// Component maxima.
const (
	MaxQuiz       = 10.0
	MaxAssignment = 10.0
	MaxMidterm    = 25.0
	MaxFinalExam  = 35.0
	MaxTotal      = 2*MaxQuiz + 2*MaxAssignment + MaxMidterm + MaxFinalExam
)

// ErrOutOfRange is wrapped by Validate for negative or over-maximum scores.
var ErrOutOfRange = errors.New("score out of range")

// Scores holds the raw components of a result.
type Scores struct {
	Quiz1       float64 `json:"quiz1" db:"quiz1"`
	Quiz2       float64 `json:"quiz2" db:"quiz2"`
	Assignment1 float64 `json:"assignment1" db:"assignment1"`
	Assignment2 float64 `json:"assignment2" db:"assignment2"`
	Midterm     float64 `json:"midterm" db:"midterm"`
	FinalExam   float64 `json:"final_exam" db:"final_exam"`
}

// Patch carries a partial submission. Nil fields keep their stored value.
type Patch struct {
	Quiz1       *float64 `json:"quiz1"`
	Quiz2       *float64 `json:"quiz2"`
	Assignment1 *float64 `json:"assignment1"`
	Assignment2 *float64 `json:"assignment2"`
	Midterm     *float64 `json:"midterm"`
	FinalExam   *float64 `json:"final_exam"`
}

// Empty reports whether the patch supplies no component.
func (p Patch) Empty() bool {
	return p.Quiz1 == nil && p.Quiz2 == nil && p.Assignment1 == nil &&
		p.Assignment2 == nil && p.Midterm == nil && p.FinalExam == nil
}

// Outcome is the full derived view of a set of scores.
type Outcome struct {
	Scores
	Quiz       float64 `json:"quiz"`
	Assignment float64 `json:"assignment"`
	Total      float64 `json:"total"`
	Grade      string  `json:"grade"`
	GPA        float64 `json:"gpa"`
}

// Merge overlays the supplied patch fields on base.
func Merge(base Scores, p Patch) Scores {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.Quiz1, p.Quiz1)
	set(&base.Quiz2, p.Quiz2)
	set(&base.Assignment1, p.Assignment1)
	set(&base.Assignment2, p.Assignment2)
	set(&base.Midterm, p.Midterm)
	set(&base.FinalExam, p.FinalExam)
	return base
}

// Validate checks every component against its maximum.
func Validate(s Scores) error {
	checks := []struct {
		name  string
		value float64
		max   float64
	}{
		{"quiz1", s.Quiz1, MaxQuiz},
		{"quiz2", s.Quiz2, MaxQuiz},
		{"assignment1", s.Assignment1, MaxAssignment},
		{"assignment2", s.Assignment2, MaxAssignment},
		{"midterm", s.Midterm, MaxMidterm},
		{"final_exam", s.FinalExam, MaxFinalExam},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value < 0 || c.value > c.max {
			return fmt.Errorf("%w: %s must be between 0 and %g", ErrOutOfRange, c.name, c.max)
		}
	}
	return nil
}

// Compute derives quiz, assignment and total sums plus grade and GPA.
func Compute(s Scores) Outcome {
	quiz := s.Quiz1 + s.Quiz2
	assignment := s.Assignment1 + s.Assignment2
	total := quiz + assignment + s.Midterm + s.FinalExam
	grade, gpa := Grade(total)
	return Outcome{
		Scores:     s,
		Quiz:       quiz,
		Assignment: assignment,
		Total:      total,
		Grade:      grade,
		GPA:        gpa,
	}
}

// Grade maps a total to its letter grade and grade point.
func Grade(total float64) (string, float64) {
	switch {
	case total >= 90:
		return "A", 4.0
	case total >= 80:
		return "B", 3.0
	case total >= 70:
		return "C", 2.0
	case total >= 60:
		return "D", 1.0
	default:
		return "F", 0.0
	}
}

// Letters lists the grades from best to worst.
func Letters() []string {
	return []string{"A", "B", "C", "D", "F"}
}
