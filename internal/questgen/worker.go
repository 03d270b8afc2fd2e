package questgen

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmoreno/storyquiz/internal/llm"
	"github.com/dmoreno/storyquiz/internal/store"
)

// CriterionSource provides the criterion a worker generates for.
type CriterionSource interface {
	CriterionByID(ctx context.Context, id int64) (*store.Criterion, error)
}

// QuestionWriter persists a validated draft transactionally and returns the
// new question ID.
type QuestionWriter interface {
	InsertQuestion(ctx context.Context, criterionID int64, statement, explanation string, options []string, correctIndex int) (int64, error)
}

// Config tunes the generation workers.
type Config struct {
	// Subject names the course topic embedded in every prompt.
	Subject string

	// Timeout bounds one generation call. Full question drafts from slow
	// local models can take minutes.
	Timeout time.Duration

	// MaxTokens bounds the completion length.
	MaxTokens int
}

// DefaultConfig returns worker defaults.
func DefaultConfig() Config {
	return Config{
		Subject:   "bases de datos",
		Timeout:   400 * time.Second,
		MaxTokens: 1024,
	}
}

// Worker generates and persists one question for one criterion. A worker
// failure is isolated: it becomes an Outcome value, never a panic or a
// fatal error for sibling criteria.
type Worker struct {
	provider  llm.Provider
	criteria  CriterionSource
	questions QuestionWriter
	config    Config
	logger    *slog.Logger
}

// NewWorker wires a Worker.
func NewWorker(provider llm.Provider, criteria CriterionSource, questions QuestionWriter, cfg Config, logger *slog.Logger) *Worker {
	if cfg.Subject == "" {
		cfg.Subject = DefaultConfig().Subject
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Worker{
		provider:  provider,
		criteria:  criteria,
		questions: questions,
		config:    cfg,
		logger:    logger,
	}
}

// Run generates one question for the criterion: fetch description, call the
// generation service under the configured timeout, parse the completion,
// persist the draft. The returned Outcome carries the failed stage when any
// step errors.
func (w *Worker) Run(ctx context.Context, criterionID int64) Outcome {
	out := Outcome{CriterionID: criterionID}

	criterion, err := w.criteria.CriterionByID(ctx, criterionID)
	if err != nil {
		out.Stage, out.Err = StageFetch, err
		return out
	}

	genCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	resp, err := w.provider.Generate(genCtx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(w.config.Subject, criterion.Description)},
		},
		MaxTokens: w.config.MaxTokens,
	})
	if err != nil {
		out.Stage, out.Err = StageGenerate, err
		return out
	}

	draft, err := Parse(resp.Text())
	if err != nil {
		w.logger.Warn("unparseable completion",
			slog.Int64("criterion_id", criterionID),
			slog.String("error", err.Error()))
		out.Stage, out.Err = StageParse, err
		return out
	}

	questionID, err := w.questions.InsertQuestion(ctx, criterionID,
		draft.Statement, draft.Explanation, draft.Options, draft.CorrectIndex)
	if err != nil {
		out.Stage, out.Err = StagePersist, err
		return out
	}

	w.logger.Info("question generated",
		slog.Int64("criterion_id", criterionID),
		slog.Int64("question_id", questionID))
	out.QuestionID = questionID
	return out
}
