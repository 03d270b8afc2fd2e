package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Objective is the top level of the curriculum hierarchy.
type Objective struct {
	ID          int64
	Description string
}

// Story belongs to one Objective and owns the Criteria a learner must certify.
type Story struct {
	ID          int64
	Description string
	ObjectiveID int64
}

// Criterion belongs to one Story. Its description seeds question generation.
type Criterion struct {
	ID          int64
	Description string
	StoryID     int64
}

// Question is a multiple-choice question certifying one Criterion.
type Question struct {
	ID          int64
	Statement   string
	Explanation string
	CriterionID int64
}

// Option is one answer choice of a Question. Exactly one option per question
// carries Correct=true; its weight is 1.0, all others 0.0.
type Option struct {
	QuestionID int64
	Text       string
	Correct    bool
	Weight     float64
}

// QuestionWithOptions is a Question joined with its ordered Options,
// as served to a quiz session.
type QuestionWithOptions struct {
	Question
	Options       []Option
	CorrectAnswer string
}

// QuestionRef locates a question inside the hierarchy without its text.
// The mastery aggregator indexes these by story and criterion.
type QuestionRef struct {
	ID          int64
	CriterionID int64
	StoryID     int64
}

// Attempt is one quiz submission. The timestamp acts as primary key, so two
// attempts can never share an insertion instant.
type Attempt struct {
	TakenAt   time.Time
	UserEmail string
	Score     float64
}

// Selection records the option a user chose for one question in an attempt.
type Selection struct {
	QuestionID int64
	OptionText string
}

// LatestAnswer is the correctness of the user's most recent selection
// for a question, the only attempt that counts toward mastery.
type LatestAnswer struct {
	QuestionID int64
	Correct    bool
}
