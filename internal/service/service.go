// Package service ties the store, the generation pipeline, the job tracker
// and the mastery aggregator into the operations consumers call. HTTP
// routing or any other transport sits outside and talks to this facade.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmoreno/storyquiz/internal/jobstatus"
	"github.com/dmoreno/storyquiz/internal/mastery"
	"github.com/dmoreno/storyquiz/internal/questgen"
	"github.com/dmoreno/storyquiz/internal/store"
)

// ErrNoSelections rejects an attempt submission with no answers in it.
var ErrNoSelections = errors.New("attempt has no selections")

// Service is the application facade over the two core subsystems.
type Service struct {
	store      *store.Store
	tracker    *jobstatus.Tracker
	orch       *questgen.Orchestrator
	aggregator *mastery.Aggregator
	logger     *slog.Logger

	jobs sync.WaitGroup
}

// New wires a Service.
func New(st *store.Store, tracker *jobstatus.Tracker, orch *questgen.Orchestrator, logger *slog.Logger) *Service {
	return &Service{
		store:      st,
		tracker:    tracker,
		orch:       orch,
		aggregator: mastery.NewAggregator(st),
		logger:     logger,
	}
}

// Bootstrap ensures the fixed identity exists. Called once at startup.
func (s *Service) Bootstrap(ctx context.Context, email, name string) error {
	return s.store.EnsureUser(ctx, email, name)
}

// RequestGeneration starts a background generation job for every criterion
// of the story and acknowledges immediately; the caller polls for the
// outcome. Returns store.ErrNotFound for an unknown story and
// jobstatus.ErrAlreadyRunning while a previous job is still live.
func (s *Service) RequestGeneration(ctx context.Context, storyID int64) error {
	if _, err := s.store.StoryByID(ctx, storyID); err != nil {
		return err
	}

	if err := s.tracker.Start(storyID); err != nil {
		return err
	}

	// The job outlives the request: it runs on a fresh context and reports
	// through the durable status record only.
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		s.orch.Run(context.Background(), storyID)
	}()

	return nil
}

// PollGeneration reports the story's job state, applying timeout expiry and
// one-shot consumption of terminal states.
func (s *Service) PollGeneration(storyID int64) (jobstatus.PollResult, error) {
	return s.tracker.Poll(storyID)
}

// Wait blocks until all in-flight generation jobs settle. Used on shutdown
// and in tests; pollers never need it.
func (s *Service) Wait() {
	s.jobs.Wait()
}

// Dashboard computes the global mastery dashboard for the user.
func (s *Service) Dashboard(ctx context.Context, userEmail string) (*mastery.Dashboard, error) {
	return s.aggregator.Dashboard(ctx, userEmail)
}

// ObjectiveStories returns the per-story mastery detail of an objective.
func (s *Service) ObjectiveStories(ctx context.Context, userEmail string, objectiveID int64) ([]mastery.StoryDetail, error) {
	return s.aggregator.ObjectiveStories(ctx, userEmail, objectiveID)
}

// StoryStats returns {total, answered} for one story.
func (s *Service) StoryStats(ctx context.Context, userEmail string, storyID int64) (*mastery.ScopeStats, error) {
	return s.aggregator.StoryStats(ctx, userEmail, storyID)
}

// ObjectiveStats returns {total, answered} for one objective.
func (s *Service) ObjectiveStats(ctx context.Context, userEmail string, objectiveID int64) (*mastery.ScopeStats, error) {
	return s.aggregator.ObjectiveStats(ctx, userEmail, objectiveID)
}

// StoryQuestions returns the questions of a story with their options. With
// review set, questions already answered correctly in the latest attempt
// are left out, so the learner repeats only failed and pending ones.
func (s *Service) StoryQuestions(ctx context.Context, userEmail string, storyID int64, review bool) ([]store.QuestionWithOptions, error) {
	if _, err := s.store.StoryByID(ctx, storyID); err != nil {
		return nil, err
	}
	return s.store.StoryQuestions(ctx, storyID, review, userEmail)
}

// RecordAttempt stores one quiz submission: the attempt row plus all its
// selections, atomically. The attempt timestamp is taken here, so the
// timestamp-as-identity invariant holds per call.
func (s *Service) RecordAttempt(ctx context.Context, userEmail string, score float64, selections []store.Selection) error {
	if len(selections) == 0 {
		return ErrNoSelections
	}
	attempt := store.Attempt{
		TakenAt:   time.Now(),
		UserEmail: userEmail,
		Score:     score,
	}
	if err := s.store.RecordAttempt(ctx, attempt, selections); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	s.logger.Info("attempt recorded",
		slog.String("user", userEmail),
		slog.Int("selections", len(selections)))
	return nil
}
