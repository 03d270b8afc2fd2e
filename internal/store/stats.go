package store

import "context"

// AnsweredCount returns the number of distinct questions the user has
// answered at least once, across the whole curriculum.
func (s *Store) AnsweredCount(ctx context.Context, userEmail string) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(DISTINCT s.question_id)
		FROM selections s
		JOIN attempts a ON s.attempt_at = a.taken_at
		WHERE a.user_email = ?`,
		userEmail)
}

// CountQuestionsByStory returns the total number of questions under one story.
func (s *Store) CountQuestionsByStory(ctx context.Context, storyID int64) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(q.id)
		FROM questions q
		JOIN criteria c ON q.criterion_id = c.id
		WHERE c.story_id = ?`,
		storyID)
}

// AnsweredCountByStory returns the distinct questions of a story the user has
// answered at least once.
func (s *Store) AnsweredCountByStory(ctx context.Context, userEmail string, storyID int64) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(DISTINCT q.id)
		FROM selections s
		JOIN attempts a ON s.attempt_at = a.taken_at
		JOIN questions q ON s.question_id = q.id
		JOIN criteria c ON q.criterion_id = c.id
		WHERE a.user_email = ? AND c.story_id = ?`,
		userEmail, storyID)
}

// CountQuestionsByObjective returns the total number of questions under one
// objective, walking questions -> criteria -> stories.
func (s *Store) CountQuestionsByObjective(ctx context.Context, objectiveID int64) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(q.id)
		FROM questions q
		JOIN criteria c ON q.criterion_id = c.id
		JOIN stories st ON c.story_id = st.id
		WHERE st.objective_id = ?`,
		objectiveID)
}

// AnsweredCountByObjective returns the distinct questions of an objective the
// user has answered at least once.
func (s *Store) AnsweredCountByObjective(ctx context.Context, userEmail string, objectiveID int64) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(DISTINCT q.id)
		FROM selections s
		JOIN attempts a ON s.attempt_at = a.taken_at
		JOIN questions q ON s.question_id = q.id
		JOIN criteria c ON q.criterion_id = c.id
		JOIN stories st ON c.story_id = st.id
		WHERE a.user_email = ? AND st.objective_id = ?`,
		userEmail, objectiveID)
}
