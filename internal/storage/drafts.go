package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/liftlog/internal/models"
)

// StartDraft creates the user's workout draft, optionally materialized from a
// template. Starting is idempotent: if a draft already exists it is returned
// unchanged, whatever template was requested. The UNIQUE(user_id) constraint
// backs this up under concurrency — when two starts race, the loser's insert
// hits the constraint and falls back to returning the winner's row, so no
// caller ever sees a duplicate-draft error.
func (db *DB) StartDraft(ctx context.Context, userID uuid.UUID, templateID *uuid.UUID) (*models.WorkoutDraft, error) {
	if existing, err := db.GetDraft(ctx, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	data := models.SessionData{}
	if templateID != nil {
		template, err := db.GetTemplateDetail(ctx, userID, *templateID)
		if err != nil {
			return nil, err
		}
		for _, def := range template.Exercises {
			data.Exercises = append(data.Exercises, models.NewExerciseEntry(def))
		}
	}

	now := time.Now().UTC()
	draft := models.WorkoutDraft{
		ID:         uuid.New(),
		UserID:     userID,
		TemplateID: templateID,
		Data:       data,
		StartedAt:  now,
		UpdatedAt:  now,
	}

	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_drafts (id, user_id, template_id, session_data, started_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO NOTHING`,
		draft.ID, draft.UserID, draft.TemplateID, draft.Data, draft.StartedAt, draft.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Lost the race: another request created the draft first.
		return db.GetDraft(ctx, userID)
	}
	return &draft, nil
}

// GetDraft retrieves the user's draft, or ErrNotFound if none exists.
func (db *DB) GetDraft(ctx context.Context, userID uuid.UUID) (*models.WorkoutDraft, error) {
	var d models.WorkoutDraft
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, template_id, session_data, started_at, updated_at
		 FROM workout_drafts
		 WHERE user_id = $1`,
		userID).Scan(&d.ID, &d.UserID, &d.TemplateID, &d.Data, &d.StartedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying draft: %w", err)
	}
	return &d, nil
}

// ReplaceDraftData overwrites the draft's session data wholesale and bumps
// updated_at. The client owns the editing logic and pushes the full state;
// values are not validated here — only finalize cares about them.
func (db *DB) ReplaceDraftData(ctx context.Context, userID uuid.UUID, data models.SessionData) (*models.WorkoutDraft, error) {
	var d models.WorkoutDraft
	err := db.Pool.QueryRow(ctx,
		`UPDATE workout_drafts SET session_data = $2, updated_at = $3
		 WHERE user_id = $1
		 RETURNING id, user_id, template_id, session_data, started_at, updated_at`,
		userID, data, time.Now().UTC()).Scan(&d.ID, &d.UserID, &d.TemplateID, &d.Data, &d.StartedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("replacing draft data: %w", err)
	}
	return &d, nil
}

// AddDraftExercise appends an owned exercise to the end of the draft, with
// its name snapshotted and one empty set. Returns ErrConflict if the draft
// already contains the exercise. The read-modify-write runs in a transaction
// with the draft row locked so concurrent adds cannot drop each other.
func (db *DB) AddDraftExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*models.WorkoutDraft, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var d models.WorkoutDraft
	err = tx.QueryRow(ctx,
		`SELECT id, user_id, template_id, session_data, started_at, updated_at
		 FROM workout_drafts
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID).Scan(&d.ID, &d.UserID, &d.TemplateID, &d.Data, &d.StartedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying draft: %w", err)
	}

	var def models.ExerciseDefinition
	err = tx.QueryRow(ctx,
		`SELECT id, user_id, name, created_at
		 FROM exercise_definitions
		 WHERE id = $1 AND user_id = $2`,
		exerciseID, userID).Scan(&def.ID, &def.UserID, &def.Name, &def.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}

	if d.Data.ContainsExercise(def.ID) {
		return nil, ErrConflict
	}
	d.Data.Exercises = append(d.Data.Exercises, models.NewExerciseEntry(def))
	d.UpdatedAt = time.Now().UTC()

	if _, err := tx.Exec(ctx,
		`UPDATE workout_drafts SET session_data = $2, updated_at = $3 WHERE id = $1`,
		d.ID, d.Data, d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("updating draft: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing draft update: %w", err)
	}
	return &d, nil
}

// DiscardDraft deletes the draft without converting it. Nothing is kept.
func (db *DB) DiscardDraft(ctx context.Context, userID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_drafts WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
