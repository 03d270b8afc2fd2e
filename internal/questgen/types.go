// Package questgen turns a criterion description into a persisted
// multiple-choice question: it prompts the generation service, parses the
// free-form completion into a structured draft and stores it
// transactionally. Jobs fan out one worker per criterion of a story and
// settle all of them before reporting completion.
package questgen

import "fmt"

// maxOptions is how many answer choices a question carries. The prompt asks
// for exactly four; anything beyond is discarded by the parser.
const maxOptions = 4

// minOptions is the smallest option set a draft may have. The correct
// letter must also index into the parsed options.
const minOptions = 2

// Draft is a parsed, validated question not yet persisted.
type Draft struct {
	// Statement is the question prompt with enclosing punctuation stripped.
	Statement string

	// Options are the answer choices in A..D order, at most four.
	Options []string

	// CorrectIndex points into Options at the single correct choice.
	CorrectIndex int

	// Explanation is the rationale shown after answering. May be empty.
	Explanation string
}

// ParseError reports that a completion could not be shaped into a Draft.
// Field names the first extraction rule that failed.
type ParseError struct {
	Field string
	Raw   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed generation output: missing %s", e.Field)
}

// Stage identifies which step of a worker's pipeline failed.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageGenerate Stage = "generate"
	StageParse    Stage = "parse"
	StagePersist  Stage = "persist"
)

// Outcome is the settled result of one per-criterion worker. Failures are
// values here, never propagated as fatal: a failed criterion must not abort
// its siblings.
type Outcome struct {
	CriterionID int64
	QuestionID  int64
	Stage       Stage
	Err         error
}

// OK reports whether the worker produced a question.
func (o Outcome) OK() bool { return o.Err == nil }
