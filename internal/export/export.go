// Package export dumps a user's workout history into a local SQLite file for
// offline analysis.
package export

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// Source is the data-layer surface the exporter reads from.
type Source interface {
	ListExercises(ctx context.Context, userID uuid.UUID) ([]models.ExerciseDefinition, error)
	ListSessionDetails(ctx context.Context, userID uuid.UUID) ([]models.CompletedSessionDetail, error)
}

// Compile-time check: *storage.DB satisfies Source.
var _ Source = (*storage.DB)(nil)

// Summary reports what an export wrote.
type Summary struct {
	Exercises int
	Sessions  int
	Sets      int
}

const schema = `
CREATE TABLE IF NOT EXISTS exercises (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	template_id   TEXT,
	started_at    TIMESTAMP NOT NULL,
	completed_at  TIMESTAMP NOT NULL,
	session_score REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS sets (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL REFERENCES sessions(id),
	exercise_id TEXT NOT NULL REFERENCES exercises(id),
	set_number  INTEGER NOT NULL,
	reps        INTEGER NOT NULL,
	weight      REAL NOT NULL,
	epley_score REAL NOT NULL
);`

// Run writes the user's exercises, completed sessions and sets to a SQLite
// file at path, creating it if needed. Re-running against the same file
// replaces overlapping rows, so repeated exports stay idempotent.
func Run(ctx context.Context, src Source, userID uuid.UUID, path string) (*Summary, error) {
	exercises, err := src.ListExercises(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	sessions, err := src.ListSessionDetails(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening export db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating export schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	summary := &Summary{}
	for _, e := range exercises {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO exercises (id, name, created_at) VALUES (?, ?, ?)`,
			e.ID.String(), e.Name, e.CreatedAt); err != nil {
			return nil, fmt.Errorf("writing exercise %q: %w", e.Name, err)
		}
		summary.Exercises++
	}

	for _, s := range sessions {
		var templateID any
		if s.TemplateID != nil {
			templateID = s.TemplateID.String()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO sessions (id, template_id, started_at, completed_at, session_score)
			 VALUES (?, ?, ?, ?, ?)`,
			s.ID.String(), templateID, s.StartedAt, s.CompletedAt, s.SessionScore); err != nil {
			return nil, fmt.Errorf("writing session %s: %w", s.ID, err)
		}
		summary.Sessions++

		for _, set := range s.CompletedSets {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO sets (id, session_id, exercise_id, set_number, reps, weight, epley_score)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				set.ID.String(), set.SessionID.String(), set.ExerciseDefinitionID.String(),
				set.SetNumber, set.Reps, set.Weight, set.EpleyScore); err != nil {
				return nil, fmt.Errorf("writing set %s: %w", set.ID, err)
			}
			summary.Sets++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing export: %w", err)
	}
	return summary, nil
}
