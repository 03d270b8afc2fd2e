package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dmoreno/storyquiz/internal/jobstatus"
	"github.com/dmoreno/storyquiz/internal/llm"
	"github.com/dmoreno/storyquiz/internal/mastery"
	"github.com/dmoreno/storyquiz/internal/questgen"
	"github.com/dmoreno/storyquiz/internal/store"
)

const testUser = "usuario@ejemplo.com"

const testCompletion = "Pregunta: ¿Qué es una clave primaria?\n" +
	"Opciones: A) Un índice único B) Una tabla C) Una vista D) Un disparador\n" +
	"Opción correcta: A\n" +
	"Explicacion: Identifica cada fila."

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestService stands up the full stack on a temp database: store,
// tracker, generation pipeline over the given provider, service facade.
func newTestService(t *testing.T, provider llm.Provider) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := quietLogger()
	tracker := jobstatus.NewTracker(jobstatus.NewMemStore(), 0)
	worker := questgen.NewWorker(provider, st, st, questgen.DefaultConfig(), logger)
	orch := questgen.NewOrchestrator(st, worker, tracker, logger)

	svc := New(st, tracker, orch, logger)
	if err := svc.Bootstrap(context.Background(), testUser, "Usuario de Prueba"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return svc, st
}

// seedStory inserts one objective, one story and one criterion, returning
// the story ID.
func seedStory(t *testing.T, st *store.Store) int64 {
	t.Helper()
	if _, err := st.DB().Exec(`INSERT INTO objectives (description) VALUES ('Modelado relacional')`); err != nil {
		t.Fatalf("seed objective: %v", err)
	}
	res, err := st.DB().Exec(`INSERT INTO stories (description, objective_id) VALUES ('Diseñar un esquema', 1)`)
	if err != nil {
		t.Fatalf("seed story: %v", err)
	}
	storyID, _ := res.LastInsertId()
	if _, err := st.DB().Exec(`INSERT INTO criteria (description, story_id) VALUES ('Identifica claves primarias', ?)`, storyID); err != nil {
		t.Fatalf("seed criterion: %v", err)
	}
	return storyID
}

func completion(s string) json.RawMessage {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(b)
}

func TestRequestGeneration_UnknownStory(t *testing.T) {
	svc, _ := newTestService(t, llm.NewMockProvider())

	err := svc.RequestGeneration(context.Background(), 42)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRequestGeneration_EndToEnd(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Content: completion(testCompletion)})
	svc, st := newTestService(t, provider)
	storyID := seedStory(t, st)
	ctx := context.Background()

	if err := svc.RequestGeneration(ctx, storyID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Wait()

	res, err := svc.PollGeneration(storyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != jobstatus.PollCompleted {
		t.Fatalf("expected COMPLETADO, got %q", res)
	}

	// The terminal state was consumed by the poll above.
	res, err = svc.PollGeneration(storyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != jobstatus.PollPending {
		t.Fatalf("expected PENDIENTE, got %q", res)
	}

	questions, err := svc.StoryQuestions(ctx, testUser, storyID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 generated question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != "Un índice único" {
		t.Fatalf("unexpected correct answer: %q", questions[0].CorrectAnswer)
	}
}

// blockingProvider parks every Generate call until released.
type blockingProvider struct {
	release chan struct{}
}

func (b *blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &llm.Response{Content: completion(testCompletion)}, nil
}

func (b *blockingProvider) ModelID() string { return "blocking" }

func TestRequestGeneration_RejectsConcurrentJob(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	svc, st := newTestService(t, provider)
	storyID := seedStory(t, st)
	ctx := context.Background()

	if err := svc.RequestGeneration(ctx, storyID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.RequestGeneration(ctx, storyID)
	if !errors.Is(err, jobstatus.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got: %v", err)
	}

	close(provider.release)
	svc.Wait()

	res, err := svc.PollGeneration(storyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != jobstatus.PollCompleted {
		t.Fatalf("expected COMPLETADO, got %q", res)
	}
}

func TestRecordAttempt_RejectsEmptySubmission(t *testing.T) {
	svc, _ := newTestService(t, llm.NewMockProvider())

	err := svc.RecordAttempt(context.Background(), testUser, 0, nil)
	if !errors.Is(err, ErrNoSelections) {
		t.Fatalf("expected ErrNoSelections, got: %v", err)
	}
}

func TestRecordAttempt_FlowsIntoDashboard(t *testing.T) {
	svc, st := newTestService(t, llm.NewMockProvider())
	storyID := seedStory(t, st)
	ctx := context.Background()

	qid, err := st.InsertQuestion(ctx, 1, "p1", "", []string{"bien", "mal"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RecordAttempt(ctx, testUser, 1, []store.Selection{{QuestionID: qid, OptionText: "bien"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, err := svc.Dashboard(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.QuestionsPending != 0 {
		t.Fatalf("expected no pending questions, got %d", d.Stats.QuestionsPending)
	}
	if d.StoriesChart != [3]int{0, 1, 0} {
		t.Fatalf("expected the story passed, got %v", d.StoriesChart)
	}

	stats, err := svc.StoryStats(ctx, testUser, storyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *stats != (mastery.ScopeStats{TotalQuestions: 1, AnsweredQuestions: 1}) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
