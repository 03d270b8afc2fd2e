package mastery

import (
	"math"

	"github.com/dmoreno/storyquiz/internal/store"
)

// AnswerIndex maps a question ID to the correctness of the user's latest
// selection for it. Absence means the question was never answered.
type AnswerIndex map[int64]bool

// IndexAnswers builds an AnswerIndex from the latest-attempt relation.
func IndexAnswers(latest []store.LatestAnswer) AnswerIndex {
	idx := make(AnswerIndex, len(latest))
	for _, la := range latest {
		idx[la.QuestionID] = la.Correct
	}
	return idx
}

// GroupQuestionsByStory indexes question refs by their owning story.
func GroupQuestionsByStory(refs []store.QuestionRef) map[int64][]store.QuestionRef {
	byStory := make(map[int64][]store.QuestionRef)
	for _, r := range refs {
		byStory[r.StoryID] = append(byStory[r.StoryID], r)
	}
	return byStory
}

// StoryState computes one story's outcome from its question set and the
// answer index. A story nobody attempted is pending, neither passed nor
// failed; an attempted story passes when correct/total reaches the
// threshold.
func StoryState(story store.Story, questions []store.QuestionRef, answers AnswerIndex) StoryOutcome {
	out := StoryOutcome{
		StoryID:     story.ID,
		ObjectiveID: story.ObjectiveID,
		Total:       len(questions),
		State:       StatePending,
	}

	for _, q := range questions {
		correct, answered := answers[q.ID]
		if !answered {
			continue
		}
		out.Answered++
		if correct {
			out.Correct++
		}
	}

	if out.Answered == 0 {
		return out
	}
	ratio := 0.0
	if out.Total > 0 {
		ratio = float64(out.Correct) / float64(out.Total)
	}
	if ratio >= PassThreshold {
		out.State = StatePassed
	} else {
		out.State = StateFailed
	}
	return out
}

// StoryStates computes every story's outcome over the three fetched
// relations.
func StoryStates(stories []store.Story, refs []store.QuestionRef, answers AnswerIndex) []StoryOutcome {
	byStory := GroupQuestionsByStory(refs)
	out := make([]StoryOutcome, 0, len(stories))
	for _, s := range stories {
		out = append(out, StoryState(s, byStory[s.ID], answers))
	}
	return out
}

// ObjectivePassed reports whether an objective is passed: it has at least
// one story and every story passed. Pending stories block it.
func ObjectivePassed(outcomes []StoryOutcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	for _, o := range outcomes {
		if !o.Passed() {
			return false
		}
	}
	return true
}

// CriterionState computes one criterion's state from its questions and the
// answer index: pending without questions or answers, passed when every
// answered question's latest selection is correct, failed otherwise.
func CriterionState(questions []store.QuestionRef, answers AnswerIndex) State {
	answered := 0
	allCorrect := true
	for _, q := range questions {
		correct, ok := answers[q.ID]
		if !ok {
			continue
		}
		answered++
		if !correct {
			allCorrect = false
		}
	}
	switch {
	case len(questions) == 0 || answered == 0:
		return StatePending
	case allCorrect:
		return StatePassed
	default:
		return StateFailed
	}
}

// Percent returns the integer-rounded percentage part/total, 0 when total
// is zero. Each displayed percentage is rounded independently, so a triple
// need not sum to exactly 100.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
