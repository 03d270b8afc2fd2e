// Package mastery folds raw attempt history into the four-level
// pass/fail/pending hierarchy: question → criterion → story → objective.
// Only the latest attempt per question counts; a story passes at 65%
// accuracy over all its questions; an objective passes only when every one
// of its stories does.
package mastery

// State is the learner-visible mastery state of a criterion or story.
// The wire values are what the consuming frontend matches on.
type State string

const (
	StatePending State = "Pendiente"
	StatePassed  State = "Superado"
	StateFailed  State = "No Superado"
)

// PassThreshold is the accuracy ratio separating passed from failed at
// story granularity, computed over all questions of the story (unanswered
// ones count against the ratio).
const PassThreshold = 0.65

// StoryOutcome is the computed mastery position of one story.
type StoryOutcome struct {
	StoryID     int64
	ObjectiveID int64
	Total       int // questions in the story
	Answered    int // questions with at least one selection
	Correct     int // questions whose latest selection is correct
	State       State
}

// Passed reports whether the story cleared the threshold.
func (o StoryOutcome) Passed() bool { return o.State == StatePassed }

// Attempted reports whether at least one question was ever answered.
func (o StoryOutcome) Attempted() bool { return o.Answered > 0 }
