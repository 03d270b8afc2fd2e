package store

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS users (
    email TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS objectives (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    objective_id INTEGER NOT NULL REFERENCES objectives(id)
);

CREATE TABLE IF NOT EXISTS criteria (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    story_id INTEGER NOT NULL REFERENCES stories(id)
);

CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    statement TEXT NOT NULL,
    explanation TEXT NOT NULL DEFAULT '',
    criterion_id INTEGER NOT NULL REFERENCES criteria(id)
);

CREATE TABLE IF NOT EXISTS options (
    question_id INTEGER NOT NULL REFERENCES questions(id),
    text TEXT NOT NULL,
    correct INTEGER NOT NULL DEFAULT 0,
    weight REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (question_id, text)
);

CREATE TABLE IF NOT EXISTS attempts (
    taken_at TEXT PRIMARY KEY,
    user_email TEXT NOT NULL REFERENCES users(email),
    score REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS selections (
    attempt_at TEXT NOT NULL REFERENCES attempts(taken_at),
    question_id INTEGER NOT NULL REFERENCES questions(id),
    option_text TEXT NOT NULL,
    PRIMARY KEY (attempt_at, question_id)
);

CREATE INDEX IF NOT EXISTS idx_stories_objective ON stories(objective_id);
CREATE INDEX IF NOT EXISTS idx_criteria_story ON criteria(story_id);
CREATE INDEX IF NOT EXISTS idx_questions_criterion ON questions(criterion_id);
CREATE INDEX IF NOT EXISTS idx_selections_question ON selections(question_id);
CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_email);
`)
			return err
		},
	},
}
