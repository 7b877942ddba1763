package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/scoring"
)

// FinishDraft converts the user's draft into a permanent scored session.
// The draft load, session insert, set inserts and draft delete all run in one
// transaction: a failure anywhere rolls the whole thing back, so the system
// never holds both a draft and its completed session at once. A draft with no
// valid sets still finishes, producing a zero-score session with no sets.
func (db *DB) FinishDraft(ctx context.Context, userID uuid.UUID) (*models.CompletedSessionDetail, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var d models.WorkoutDraft
	err = tx.QueryRow(ctx,
		`SELECT id, user_id, template_id, session_data, started_at
		 FROM workout_drafts
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID).Scan(&d.ID, &d.UserID, &d.TemplateID, &d.Data, &d.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying draft: %w", err)
	}

	pending, total := scoring.Collect(d.Data)

	detail := models.CompletedSessionDetail{
		CompletedSession: models.CompletedSession{
			ID:           uuid.New(),
			UserID:       userID,
			TemplateID:   d.TemplateID,
			StartedAt:    d.StartedAt,
			CompletedAt:  time.Now().UTC(),
			SessionScore: total,
		},
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO completed_sessions (id, user_id, template_id, started_at, completed_at, session_score)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		detail.ID, detail.UserID, detail.TemplateID, detail.StartedAt, detail.CompletedAt, detail.SessionScore); err != nil {
		return nil, fmt.Errorf("inserting completed session: %w", err)
	}

	detail.CompletedSets, err = insertCompletedSets(ctx, tx, detail.ID, pending)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_drafts WHERE id = $1`, d.ID); err != nil {
		return nil, fmt.Errorf("deleting draft: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing finish: %w", err)
	}
	return &detail, nil
}

// InsertCompletedSession writes an already-scored historical session with its
// sets in one transaction. Used by the history importer; the live finish path
// goes through FinishDraft.
func (db *DB) InsertCompletedSession(ctx context.Context, session models.CompletedSession, pending []scoring.PendingSet) (*models.CompletedSessionDetail, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO completed_sessions (id, user_id, template_id, started_at, completed_at, session_score)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID, session.UserID, session.TemplateID, session.StartedAt, session.CompletedAt, session.SessionScore); err != nil {
		return nil, fmt.Errorf("inserting completed session: %w", err)
	}

	detail := models.CompletedSessionDetail{CompletedSession: session}
	detail.CompletedSets, err = insertCompletedSets(ctx, tx, session.ID, pending)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	return &detail, nil
}

// ListSessionDetails returns every completed session for the user with its
// sets, newest first. Used by the history exporter.
func (db *DB) ListSessionDetails(ctx context.Context, userID uuid.UUID) ([]models.CompletedSessionDetail, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, template_id, started_at, completed_at, session_score
		 FROM completed_sessions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying completed sessions: %w", err)
	}
	defer rows.Close()

	var details []models.CompletedSessionDetail
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s models.CompletedSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.TemplateID, &s.StartedAt, &s.CompletedAt, &s.SessionScore); err != nil {
			return nil, fmt.Errorf("scanning completed session: %w", err)
		}
		index[s.ID] = len(details)
		details = append(details, models.CompletedSessionDetail{CompletedSession: s})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	setRows, err := db.Pool.Query(ctx,
		`SELECT cs.id, cs.session_id, cs.exercise_definition_id, cs.set_number, cs.reps, cs.weight, cs.epley_score
		 FROM completed_sets cs
		 JOIN completed_sessions s ON s.id = cs.session_id
		 WHERE s.user_id = $1
		 ORDER BY cs.session_id, cs.exercise_definition_id, cs.set_number`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying completed sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var set models.CompletedSet
		if err := setRows.Scan(&set.ID, &set.SessionID, &set.ExerciseDefinitionID, &set.SetNumber, &set.Reps, &set.Weight, &set.EpleyScore); err != nil {
			return nil, fmt.Errorf("scanning completed set: %w", err)
		}
		if i, ok := index[set.SessionID]; ok {
			details[i].CompletedSets = append(details[i].CompletedSets, set)
		}
	}
	return details, setRows.Err()
}

// insertCompletedSets batch-inserts the pending sets in one statement,
// preserving their order in the returned slice.
func insertCompletedSets(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, pending []scoring.PendingSet) ([]models.CompletedSet, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	query := `INSERT INTO completed_sets (id, session_id, exercise_definition_id, set_number, reps, weight, epley_score) VALUES `
	args := make([]any, 0, len(pending)*7)
	valueStrings := make([]string, 0, len(pending))
	result := make([]models.CompletedSet, 0, len(pending))

	for i, p := range pending {
		cs := models.CompletedSet{
			ID:                   uuid.New(),
			SessionID:            sessionID,
			ExerciseDefinitionID: p.ExerciseDefinitionID,
			SetNumber:            p.SetNumber,
			Reps:                 p.Reps,
			Weight:               p.Weight,
			EpleyScore:           p.EpleyScore,
		}
		result = append(result, cs)

		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, cs.ID, cs.SessionID, cs.ExerciseDefinitionID, cs.SetNumber, cs.Reps, cs.Weight, cs.EpleyScore)
	}

	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("inserting completed sets: %w", err)
	}
	return result, nil
}
