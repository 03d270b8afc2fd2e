package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

const testUser = "usuario@ejemplo.com"

// openTestStore opens a fresh migrated database in a temp directory and
// seeds the fixed user.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.EnsureUser(context.Background(), testUser, "Usuario de Prueba"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	return s
}

// seedStory inserts one objective with one story and the given criteria
// descriptions, returning the story ID and criterion IDs.
func seedStory(t *testing.T, s *Store, criteria ...string) (int64, []int64) {
	t.Helper()
	res, err := s.db.Exec(`INSERT INTO objectives (description) VALUES ('Modelado relacional')`)
	if err != nil {
		t.Fatalf("seed objective: %v", err)
	}
	objectiveID, _ := res.LastInsertId()

	res, err = s.db.Exec(`INSERT INTO stories (description, objective_id) VALUES ('Diseñar un esquema', ?)`, objectiveID)
	if err != nil {
		t.Fatalf("seed story: %v", err)
	}
	storyID, _ := res.LastInsertId()

	ids := make([]int64, 0, len(criteria))
	for _, desc := range criteria {
		res, err = s.db.Exec(`INSERT INTO criteria (description, story_id) VALUES (?, ?)`, desc, storyID)
		if err != nil {
			t.Fatalf("seed criterion: %v", err)
		}
		id, _ := res.LastInsertId()
		ids = append(ids, id)
	}
	return storyID, ids
}

func TestEnsureUser_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, testUser, "Otro Nombre"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var name string
	if err := s.db.QueryRow(`SELECT name FROM users WHERE email = ?`, testUser).Scan(&name); err != nil {
		t.Fatalf("query user: %v", err)
	}
	// The first insert wins.
	if name != "Usuario de Prueba" {
		t.Fatalf("unexpected name: %q", name)
	}
}

func TestStoryByID_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.StoryByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestInsertQuestion_PersistsOptions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	storyID, criteria := seedStory(t, s, "Identifica claves primarias")

	options := []string{"Un índice único", "Una tabla", "Una vista", "Un disparador"}
	id, err := s.InsertQuestion(ctx, criteria[0], "Qué es una clave primaria", "Identifica cada fila.", options, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a question ID")
	}

	questions, err := s.StoryQuestions(ctx, storyID, false, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	q := questions[0]
	if q.Statement != "Qué es una clave primaria" {
		t.Fatalf("unexpected statement: %q", q.Statement)
	}
	if len(q.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(q.Options))
	}
	if q.CorrectAnswer != "Un índice único" {
		t.Fatalf("unexpected correct answer: %q", q.CorrectAnswer)
	}
	for _, opt := range q.Options {
		wantWeight := 0.0
		if opt.Correct {
			wantWeight = 1.0
		}
		if opt.Weight != wantWeight {
			t.Fatalf("option %q has weight %v with correct=%v", opt.Text, opt.Weight, opt.Correct)
		}
	}
}

func TestInsertQuestion_RollsBackOnOptionConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, criteria := seedStory(t, s, "c1")

	// Duplicate option text violates the (question_id, text) key, which
	// must take the question row down with it.
	_, err := s.InsertQuestion(ctx, criteria[0], "enunciado", "", []string{"misma", "misma"}, 0)
	if err == nil {
		t.Fatal("expected error")
	}

	n, err := s.CountQuestions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no questions after rollback, got %d", n)
	}
}

func TestInsertQuestion_ValidatesInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, criteria := seedStory(t, s, "c1")

	if _, err := s.InsertQuestion(ctx, criteria[0], "enunciado", "", nil, 0); err == nil {
		t.Fatal("expected error for empty options")
	}
	if _, err := s.InsertQuestion(ctx, criteria[0], "enunciado", "", []string{"a", "b"}, 2); err == nil {
		t.Fatal("expected error for out-of-range correct index")
	}
}

func TestRecordAttempt_RollsBackOnBadSelection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, criteria := seedStory(t, s, "c1")

	qid, err := s.InsertQuestion(ctx, criteria[0], "enunciado", "", []string{"a", "b"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attempt := Attempt{TakenAt: time.Now(), UserEmail: testUser, Score: 1}
	err = s.RecordAttempt(ctx, attempt, []Selection{
		{QuestionID: qid, OptionText: "a"},
		{QuestionID: 9999, OptionText: "a"}, // no such question
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM attempts`).Scan(&n); err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no attempts after rollback, got %d", n)
	}
}

func TestLatestAnswers_LatestAttemptWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, criteria := seedStory(t, s, "c1")

	qid, err := s.InsertQuestion(ctx, criteria[0], "enunciado", "", []string{"correcta", "incorrecta"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	first := Attempt{TakenAt: base, UserEmail: testUser, Score: 0}
	if err := s.RecordAttempt(ctx, first, []Selection{{QuestionID: qid, OptionText: "incorrecta"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := Attempt{TakenAt: base.Add(time.Minute), UserEmail: testUser, Score: 1}
	if err := s.RecordAttempt(ctx, second, []Selection{{QuestionID: qid, OptionText: "correcta"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	latest, err := s.LatestAnswers(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(latest) != 1 {
		t.Fatalf("expected 1 latest answer, got %d", len(latest))
	}
	if latest[0].QuestionID != qid || !latest[0].Correct {
		t.Fatalf("expected the later correct selection to win, got %+v", latest[0])
	}
}

func TestStoryQuestions_ReviewExcludesLatestCorrect(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	storyID, criteria := seedStory(t, s, "c1", "c2")

	q1, err := s.InsertQuestion(ctx, criteria[0], "p1", "", []string{"bien", "mal"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q2, err := s.InsertQuestion(ctx, criteria[1], "p2", "", []string{"bien", "mal"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	attempt := Attempt{TakenAt: base, UserEmail: testUser, Score: 0.5}
	err = s.RecordAttempt(ctx, attempt, []Selection{
		{QuestionID: q1, OptionText: "bien"},
		{QuestionID: q2, OptionText: "mal"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	review, err := s.StoryQuestions(ctx, storyID, true, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(review) != 1 || review[0].ID != q2 {
		t.Fatalf("expected only the failed question %d, got %+v", q2, review)
	}

	// Failing q1 on a later attempt brings it back into review.
	retry := Attempt{TakenAt: base.Add(time.Minute), UserEmail: testUser, Score: 0}
	if err := s.RecordAttempt(ctx, retry, []Selection{{QuestionID: q1, OptionText: "mal"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	review, err = s.StoryQuestions(ctx, storyID, true, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(review) != 2 {
		t.Fatalf("expected both questions back in review, got %d", len(review))
	}

	// Normal mode always returns everything.
	all, err := s.StoryQuestions(ctx, storyID, false, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(all))
	}
}

func TestScopedCounts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	storyID, criteria := seedStory(t, s, "c1", "c2")

	q1, err := s.InsertQuestion(ctx, criteria[0], "p1", "", []string{"a", "b"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.InsertQuestion(ctx, criteria[1], "p2", "", []string{"a", "b"}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	// Two attempts on the same question still count it once.
	for i, opt := range []string{"a", "b"} {
		attempt := Attempt{TakenAt: base.Add(time.Duration(i) * time.Minute), UserEmail: testUser}
		if err := s.RecordAttempt(ctx, attempt, []Selection{{QuestionID: q1, OptionText: opt}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	total, err := s.CountQuestionsByStory(ctx, storyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 questions, got %d", total)
	}

	answered, err := s.AnsweredCountByStory(ctx, testUser, storyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answered != 1 {
		t.Fatalf("expected 1 answered question, got %d", answered)
	}

	answeredObj, err := s.AnsweredCountByObjective(ctx, testUser, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answeredObj != 1 {
		t.Fatalf("expected 1 answered question in objective, got %d", answeredObj)
	}

	globalAnswered, err := s.AnsweredCount(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if globalAnswered != 1 {
		t.Fatalf("expected 1 answered question overall, got %d", globalAnswered)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.EnsureUser(ctx, testUser, "Usuario de Prueba"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	seedStory(t, s, "c1")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()

	n, err := s.CountStories(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected the seeded story to survive reopen, got %d", n)
	}
}
