package store

import (
	"context"
	"fmt"
)

// InsertQuestion writes a question and all its options in one transaction.
// The option at correctIndex gets the correct flag and a weight of 1.0, the
// rest 0.0. A failure on any option insert rolls back the question row too,
// so a half-written question is never observable.
func (s *Store) InsertQuestion(ctx context.Context, criterionID int64, statement, explanation string, options []string, correctIndex int) (int64, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("question for criterion %d has no options", criterionID)
	}
	if correctIndex < 0 || correctIndex >= len(options) {
		return 0, fmt.Errorf("correct index %d out of range for %d options", correctIndex, len(options))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert question: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO questions (statement, explanation, criterion_id) VALUES (?, ?, ?)`,
		statement, explanation, criterionID)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	questionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("question id: %w", err)
	}

	for i, text := range options {
		correct := i == correctIndex
		weight := 0.0
		if correct {
			weight = 1.0
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO options (question_id, text, correct, weight) VALUES (?, ?, ?, ?)`,
			questionID, text, correct, weight)
		if err != nil {
			return 0, fmt.Errorf("insert option %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit question: %w", err)
	}
	return questionID, nil
}

// QuestionRefs returns every question with its criterion and story,
// the relation the mastery aggregator indexes by story.
func (s *Store) QuestionRefs(ctx context.Context) ([]QuestionRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.criterion_id, c.story_id
		FROM questions q
		JOIN criteria c ON q.criterion_id = c.id
		ORDER BY q.id`)
	if err != nil {
		return nil, fmt.Errorf("query question refs: %w", err)
	}
	defer rows.Close()

	var out []QuestionRef
	for rows.Next() {
		var r QuestionRef
		if err := rows.Scan(&r.ID, &r.CriterionID, &r.StoryID); err != nil {
			return nil, fmt.Errorf("scan question ref: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QuestionRefsByStory returns the question refs for one story.
func (s *Store) QuestionRefsByStory(ctx context.Context, storyID int64) ([]QuestionRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.criterion_id, c.story_id
		FROM questions q
		JOIN criteria c ON q.criterion_id = c.id
		WHERE c.story_id = ?
		ORDER BY q.id`, storyID)
	if err != nil {
		return nil, fmt.Errorf("query question refs for story %d: %w", storyID, err)
	}
	defer rows.Close()

	var out []QuestionRef
	for rows.Next() {
		var r QuestionRef
		if err := rows.Scan(&r.ID, &r.CriterionID, &r.StoryID); err != nil {
			return nil, fmt.Errorf("scan question ref: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// StoryQuestions returns the full questions of a story with their options.
// When review is true, questions whose latest answer by the user was correct
// are excluded, leaving only failed and never-answered ones.
func (s *Store) StoryQuestions(ctx context.Context, storyID int64, review bool, userEmail string) ([]QuestionWithOptions, error) {
	query := `
		SELECT q.id, q.statement, q.explanation, q.criterion_id,
		       o.text, o.correct, o.weight
		FROM questions q
		JOIN options o ON q.id = o.question_id
		JOIN criteria c ON q.criterion_id = c.id
		WHERE c.story_id = ?`
	args := []any{storyID}

	if review {
		query += ` AND q.id NOT IN (
			SELECT s.question_id
			FROM selections s
			JOIN attempts a ON s.attempt_at = a.taken_at
			JOIN options chk ON s.question_id = chk.question_id AND s.option_text = chk.text
			WHERE a.user_email = ? AND chk.correct = 1
			AND a.taken_at = (
				SELECT MAX(a2.taken_at)
				FROM attempts a2
				JOIN selections s2 ON a2.taken_at = s2.attempt_at
				WHERE a2.user_email = ? AND s2.question_id = s.question_id
			)
		)`
		args = append(args, userEmail, userEmail)
	}
	query += ` ORDER BY q.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query story questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionWithOptions
	index := map[int64]int{}
	for rows.Next() {
		var (
			q   Question
			opt Option
		)
		if err := rows.Scan(&q.ID, &q.Statement, &q.Explanation, &q.CriterionID,
			&opt.Text, &opt.Correct, &opt.Weight); err != nil {
			return nil, fmt.Errorf("scan story question: %w", err)
		}
		opt.QuestionID = q.ID

		i, ok := index[q.ID]
		if !ok {
			out = append(out, QuestionWithOptions{Question: q})
			i = len(out) - 1
			index[q.ID] = i
		}
		out[i].Options = append(out[i].Options, opt)
		if opt.Correct {
			out[i].CorrectAnswer = opt.Text
		}
	}
	return out, rows.Err()
}
