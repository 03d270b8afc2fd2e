package questgen

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmoreno/storyquiz/internal/jobstatus"
	"github.com/dmoreno/storyquiz/internal/store"
	"github.com/google/uuid"
)

// CriteriaSource enumerates the criteria of a story.
type CriteriaSource interface {
	CriteriaByStory(ctx context.Context, storyID int64) ([]store.Criterion, error)
}

// Orchestrator fans one worker out per criterion of a story and settles all
// of them before writing the terminal job status. It runs detached from the
// request that triggered it; the durable status record is its only channel
// back to the caller.
type Orchestrator struct {
	criteria CriteriaSource
	worker   *Worker
	tracker  *jobstatus.Tracker
	logger   *slog.Logger
}

// NewOrchestrator wires an Orchestrator.
func NewOrchestrator(criteria CriteriaSource, worker *Worker, tracker *jobstatus.Tracker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		criteria: criteria,
		worker:   worker,
		tracker:  tracker,
		logger:   logger,
	}
}

// Run executes the generation job for a story. The caller has already
// recorded the job as in progress; Run only writes the terminal state.
//
// Per-criterion failures are settled, logged and folded into the outcome
// list; the job still completes. Only a failure of the criteria enumeration
// itself fails the whole job.
func (o *Orchestrator) Run(ctx context.Context, storyID int64) []Outcome {
	jobID := uuid.New().String()
	logger := o.logger.With(slog.String("job_id", jobID), slog.Int64("story_id", storyID))
	logger.Info("generation job started")

	criteria, err := o.criteria.CriteriaByStory(ctx, storyID)
	if err != nil {
		logger.Error("criteria lookup failed", slog.String("error", err.Error()))
		o.writeStatus(logger, o.tracker.Fail, storyID)
		return nil
	}

	if len(criteria) == 0 {
		logger.Info("no criteria, nothing to generate")
		o.writeStatus(logger, o.tracker.Complete, storyID)
		return nil
	}

	// Fan out one worker per criterion and wait for every one to settle.
	// Errors are values in the outcome slots, so a failed sibling never
	// short-circuits the rest.
	outcomes := make([]Outcome, len(criteria))
	var wg sync.WaitGroup
	for i, c := range criteria {
		wg.Add(1)
		go func(i int, criterionID int64) {
			defer wg.Done()
			outcomes[i] = o.worker.Run(ctx, criterionID)
		}(i, c.ID)
	}
	wg.Wait()

	generated := 0
	for _, out := range outcomes {
		if out.OK() {
			generated++
			continue
		}
		logger.Warn("criterion generation failed",
			slog.Int64("criterion_id", out.CriterionID),
			slog.String("stage", string(out.Stage)),
			slog.String("error", out.Err.Error()))
	}
	logger.Info("generation job settled",
		slog.Int("criteria", len(criteria)),
		slog.Int("generated", generated))

	// The job's own completion is separate from per-criterion success: a
	// partial run still reports completed.
	o.writeStatus(logger, o.tracker.Complete, storyID)
	return outcomes
}

func (o *Orchestrator) writeStatus(logger *slog.Logger, write func(int64) error, storyID int64) {
	if err := write(storyID); err != nil {
		logger.Error("writing job status failed", slog.String("error", err.Error()))
	}
}
