package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CountObjectives returns the total number of objectives.
func (s *Store) CountObjectives(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM objectives`)
}

// CountStories returns the total number of stories.
func (s *Store) CountStories(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM stories`)
}

// CountQuestions returns the total number of questions.
func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM questions`)
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Objectives returns all objectives ordered by ID.
func (s *Store) Objectives(ctx context.Context) ([]Objective, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description FROM objectives ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query objectives: %w", err)
	}
	defer rows.Close()

	var out []Objective
	for rows.Next() {
		var o Objective
		if err := rows.Scan(&o.ID, &o.Description); err != nil {
			return nil, fmt.Errorf("scan objective: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// StoryByID returns one story, or ErrNotFound.
func (s *Store) StoryByID(ctx context.Context, id int64) (*Story, error) {
	var st Story
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, objective_id FROM stories WHERE id = ?`, id).
		Scan(&st.ID, &st.Description, &st.ObjectiveID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("story %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query story %d: %w", id, err)
	}
	return &st, nil
}

// Stories returns all stories with their owning objective, ordered by ID.
func (s *Store) Stories(ctx context.Context) ([]Story, error) {
	return s.queryStories(ctx,
		`SELECT id, description, objective_id FROM stories ORDER BY id`)
}

// StoriesByObjective returns the stories belonging to one objective.
func (s *Store) StoriesByObjective(ctx context.Context, objectiveID int64) ([]Story, error) {
	return s.queryStories(ctx,
		`SELECT id, description, objective_id FROM stories WHERE objective_id = ? ORDER BY id`,
		objectiveID)
}

func (s *Store) queryStories(ctx context.Context, query string, args ...any) ([]Story, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var out []Story
	for rows.Next() {
		var st Story
		if err := rows.Scan(&st.ID, &st.Description, &st.ObjectiveID); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// CriterionByID returns one criterion, or ErrNotFound.
func (s *Store) CriterionByID(ctx context.Context, id int64) (*Criterion, error) {
	var c Criterion
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, story_id FROM criteria WHERE id = ?`, id).
		Scan(&c.ID, &c.Description, &c.StoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("criterion %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query criterion %d: %w", id, err)
	}
	return &c, nil
}

// CriteriaByStory returns the criteria belonging to one story, ordered by ID.
func (s *Store) CriteriaByStory(ctx context.Context, storyID int64) ([]Criterion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, story_id FROM criteria WHERE story_id = ? ORDER BY id`,
		storyID)
	if err != nil {
		return nil, fmt.Errorf("query criteria for story %d: %w", storyID, err)
	}
	defer rows.Close()

	var out []Criterion
	for rows.Next() {
		var c Criterion
		if err := rows.Scan(&c.ID, &c.Description, &c.StoryID); err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
