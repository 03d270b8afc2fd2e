package store

import (
	"context"
	"fmt"
	"time"
)

// timeFormat is how attempt timestamps are stored. Nanosecond precision keeps
// the timestamp-as-primary-key invariant: two submissions never collide.
const timeFormat = time.RFC3339Nano

// RecordAttempt writes an attempt and all its selections in one transaction.
// All-or-nothing: a failure on any selection rolls back the attempt row.
func (s *Store) RecordAttempt(ctx context.Context, attempt Attempt, selections []Selection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record attempt: %w", err)
	}
	defer tx.Rollback()

	takenAt := attempt.TakenAt.UTC().Format(timeFormat)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (taken_at, user_email, score) VALUES (?, ?, ?)`,
		takenAt, attempt.UserEmail, attempt.Score)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	for _, sel := range selections {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO selections (attempt_at, question_id, option_text) VALUES (?, ?, ?)`,
			takenAt, sel.QuestionID, sel.OptionText)
		if err != nil {
			return fmt.Errorf("insert selection for question %d: %w", sel.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attempt: %w", err)
	}
	return nil
}

// LatestAnswers returns, for every question the user has answered, whether
// the selection in the most recent attempt containing that question was
// correct. Earlier attempts do not count.
func (s *Store) LatestAnswers(ctx context.Context, userEmail string) ([]LatestAnswer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.question_id, o.correct
		FROM selections s
		JOIN attempts a ON s.attempt_at = a.taken_at
		JOIN (
			SELECT s2.question_id, MAX(a2.taken_at) AS max_at
			FROM attempts a2
			JOIN selections s2 ON a2.taken_at = s2.attempt_at
			WHERE a2.user_email = ?
			GROUP BY s2.question_id
		) latest ON s.question_id = latest.question_id AND a.taken_at = latest.max_at
		JOIN options o ON s.question_id = o.question_id AND s.option_text = o.text
		WHERE a.user_email = ?`,
		userEmail, userEmail)
	if err != nil {
		return nil, fmt.Errorf("query latest answers: %w", err)
	}
	defer rows.Close()

	var out []LatestAnswer
	for rows.Next() {
		var la LatestAnswer
		if err := rows.Scan(&la.QuestionID, &la.Correct); err != nil {
			return nil, fmt.Errorf("scan latest answer: %w", err)
		}
		out = append(out, la)
	}
	return out, rows.Err()
}
