package mastery

import (
	"context"
	"fmt"

	"github.com/dmoreno/storyquiz/internal/store"
)

// Reader is the read-only slice of the store the aggregator needs. It never
// writes; aggregation is safely concurrent with generation because the
// question persister is transactional.
type Reader interface {
	Objectives(ctx context.Context) ([]store.Objective, error)
	Stories(ctx context.Context) ([]store.Story, error)
	StoriesByObjective(ctx context.Context, objectiveID int64) ([]store.Story, error)
	CriteriaByStory(ctx context.Context, storyID int64) ([]store.Criterion, error)
	QuestionRefs(ctx context.Context) ([]store.QuestionRef, error)
	QuestionRefsByStory(ctx context.Context, storyID int64) ([]store.QuestionRef, error)
	LatestAnswers(ctx context.Context, userEmail string) ([]store.LatestAnswer, error)
	CountQuestions(ctx context.Context) (int, error)
	CountStories(ctx context.Context) (int, error)
	CountObjectives(ctx context.Context) (int, error)
	AnsweredCount(ctx context.Context, userEmail string) (int, error)
	CountQuestionsByStory(ctx context.Context, storyID int64) (int, error)
	AnsweredCountByStory(ctx context.Context, userEmail string, storyID int64) (int, error)
	CountQuestionsByObjective(ctx context.Context, objectiveID int64) (int, error)
	AnsweredCountByObjective(ctx context.Context, userEmail string, objectiveID int64) (int, error)
}

// Aggregator computes dashboard and per-scope mastery views for one user.
type Aggregator struct {
	reader Reader
}

// NewAggregator wires an Aggregator over a store reader.
func NewAggregator(reader Reader) *Aggregator {
	return &Aggregator{reader: reader}
}

// DashboardStats is the global headline block of the dashboard.
type DashboardStats struct {
	QuestionsAvailable int `json:"preguntasDisponibles"`
	QuestionsPending   int `json:"preguntasPendientes"`
	PendingPercent     int `json:"porcentajePendientes"`
	ObjectivesPassed   int `json:"objetivosSuperados"`
	PassedPercent      int `json:"porcentajeSuperados"`
	TotalStories       int `json:"historiasTotales"`
}

// Series is one named data row of the progress chart.
type Series struct {
	Name string `json:"name"`
	Data []int  `json:"data"`
}

/// ProgressChart holds the per-objective progress series: for each objective
// the percentage of its questions passed, pending and failed.
type ProgressChart struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

/// Dashboard is the full dashboard payload: headline stats, the story
// tri-count chart (failed, passed, pending) and the per-objective series.
type Dashboard struct {
	Stats         DashboardStats `json:"stats"`
	StoriesChart  [3]int         `json:"storiesChartData"`
	ProgressChart ProgressChart  `json:"progressChartData"`
}

// ScopeStats is the {total, answered} pair for a story or an objective.
type ScopeStats struct {
	TotalQuestions    int `json:"totalPreguntas"`
	AnsweredQuestions int `json:"preguntasRespondidas"`
}

// CriterionDetail is one criterion with its computed state.
type CriterionDetail struct {
	ID    int64  `json:"id"`
	Text  string `json:"texto"`
	State State  `json:"estado"`
}

// StoryDetail is one story of an objective with its state, criterion
// breakdown and donut tri-count (passed, failed, pending criteria).
type StoryDetail struct {
	ID       int64             `json:"id"`
	Title    string            `json:"titulo"`
	State    State             `json:"estado"`
	Criteria []CriterionDetail `json:"criterios"`
	Donut    [3]int            `json:"donutChartData"`
}

// Dashboard computes the global dashboard for a user.
func (a *Aggregator) Dashboard(ctx context.Context, userEmail string) (*Dashboard, error) {
	totalQuestions, err := a.reader.CountQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	totalStories, err := a.reader.CountStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	totalObjectives, err := a.reader.CountObjectives(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	answered, err := a.reader.AnsweredCount(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	objectives, err := a.reader.Objectives(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stories, err := a.reader.Stories(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	refs, err := a.reader.QuestionRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	latest, err := a.reader.LatestAnswers(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	answers := IndexAnswers(latest)
	outcomes := StoryStates(stories, refs, answers)

	storiesPassed, storiesFailed := 0, 0
	byObjective := make(map[int64][]StoryOutcome)
	for _, out := range outcomes {
		switch out.State {
		case StatePassed:
			storiesPassed++
		case StateFailed:
			storiesFailed++
		}
		byObjective[out.ObjectiveID] = append(byObjective[out.ObjectiveID], out)
	}
	storiesPending := totalStories - storiesPassed - storiesFailed

	objectivesPassed := 0
	for _, outs := range byObjective {
		if ObjectivePassed(outs) {
			objectivesPassed++
		}
	}

	pendingQuestions := totalQuestions - answered

	d := &Dashboard{
		Stats: DashboardStats{
			QuestionsAvailable: totalQuestions,
			QuestionsPending:   pendingQuestions,
			PendingPercent:     Percent(pendingQuestions, totalQuestions),
			ObjectivesPassed:   objectivesPassed,
			PassedPercent:      Percent(objectivesPassed, totalObjectives),
			TotalStories:       totalStories,
		},
		StoriesChart: [3]int{storiesFailed, storiesPassed, storiesPending},
	}
	d.ProgressChart = buildProgressChart(objectives, stories, refs, answers)
	return d, nil
}

// buildProgressChart computes, per objective, the independently rounded
// percentage of its questions answered correctly (passed), never answered
// (pending) and answered incorrectly (failed) on the latest attempt.
func buildProgressChart(objectives []store.Objective, stories []store.Story, refs []store.QuestionRef, answers AnswerIndex) ProgressChart {
	objectiveOf := make(map[int64]int64, len(stories))
	for _, s := range stories {
		objectiveOf[s.ID] = s.ObjectiveID
	}

	type tally struct{ total, answered, correct int }
	tallies := make(map[int64]*tally, len(objectives))
	for _, o := range objectives {
		tallies[o.ID] = &tally{}
	}
	for _, r := range refs {
		t, ok := tallies[objectiveOf[r.StoryID]]
		if !ok {
			continue
		}
		t.total++
		if correct, answered := answers[r.ID]; answered {
			t.answered++
			if correct {
				t.correct++
			}
		}
	}

	chart := ProgressChart{
		Categories: make([]string, 0, len(objectives)),
		Series: []Series{
			{Name: "% Aprobados"},
			{Name: "% Pendiente"},
			{Name: "% Suspensos"},
		},
	}
	for _, o := range objectives {
		t := tallies[o.ID]
		chart.Categories = append(chart.Categories, o.Description)
		chart.Series[0].Data = append(chart.Series[0].Data, Percent(t.correct, t.total))
		chart.Series[1].Data = append(chart.Series[1].Data, Percent(t.total-t.answered, t.total))
		chart.Series[2].Data = append(chart.Series[2].Data, Percent(t.answered-t.correct, t.total))
	}
	return chart
}

// ObjectiveStories returns the per-story detail of one objective: story
// state, per-criterion states and the criterion donut tri-count.
func (a *Aggregator) ObjectiveStories(ctx context.Context, userEmail string, objectiveID int64) ([]StoryDetail, error) {
	stories, err := a.reader.StoriesByObjective(ctx, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("objective stories: %w", err)
	}
	if len(stories) == 0 {
		return []StoryDetail{}, nil
	}

	latest, err := a.reader.LatestAnswers(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("objective stories: %w", err)
	}
	answers := IndexAnswers(latest)

	details := make([]StoryDetail, 0, len(stories))
	for _, story := range stories {
		criteria, err := a.reader.CriteriaByStory(ctx, story.ID)
		if err != nil {
			return nil, fmt.Errorf("objective stories: %w", err)
		}
		refs, err := a.reader.QuestionRefsByStory(ctx, story.ID)
		if err != nil {
			return nil, fmt.Errorf("objective stories: %w", err)
		}

		byCriterion := make(map[int64][]store.QuestionRef)
		for _, r := range refs {
			byCriterion[r.CriterionID] = append(byCriterion[r.CriterionID], r)
		}

		detail := StoryDetail{
			ID:       story.ID,
			Title:    story.Description,
			State:    StoryState(story, refs, answers).State,
			Criteria: make([]CriterionDetail, 0, len(criteria)),
		}

		passed, failed := 0, 0
		for _, c := range criteria {
			state := CriterionState(byCriterion[c.ID], answers)
			switch state {
			case StatePassed:
				passed++
			case StateFailed:
				failed++
			}
			detail.Criteria = append(detail.Criteria, CriterionDetail{
				ID:    c.ID,
				Text:  c.Description,
				State: state,
			})
		}
		detail.Donut = [3]int{passed, failed, len(criteria) - passed - failed}
		details = append(details, detail)
	}

	return details, nil
}

// StoryStats returns the {total, answered} question counts of one story.
func (a *Aggregator) StoryStats(ctx context.Context, userEmail string, storyID int64) (*ScopeStats, error) {
	total, err := a.reader.CountQuestionsByStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("story stats: %w", err)
	}
	answered, err := a.reader.AnsweredCountByStory(ctx, userEmail, storyID)
	if err != nil {
		return nil, fmt.Errorf("story stats: %w", err)
	}
	return &ScopeStats{TotalQuestions: total, AnsweredQuestions: answered}, nil
}

// ObjectiveStats returns the {total, answered} question counts of one
// objective.
func (a *Aggregator) ObjectiveStats(ctx context.Context, userEmail string, objectiveID int64) (*ScopeStats, error) {
	total, err := a.reader.CountQuestionsByObjective(ctx, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("objective stats: %w", err)
	}
	answered, err := a.reader.AnsweredCountByObjective(ctx, userEmail, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("objective stats: %w", err)
	}
	return &ScopeStats{TotalQuestions: total, AnsweredQuestions: answered}, nil
}
