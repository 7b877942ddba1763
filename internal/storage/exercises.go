package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/liftlog/internal/models"
)

// ListExercises returns the user's exercise definitions ordered by name.
func (db *DB) ListExercises(ctx context.Context, userID uuid.UUID) ([]models.ExerciseDefinition, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, created_at
		 FROM exercise_definitions
		 WHERE user_id = $1
		 ORDER BY name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseDefinition
	for rows.Next() {
		var e models.ExerciseDefinition
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateExercise inserts a new exercise definition. Returns ErrConflict if
// the user already has an exercise with the same name.
func (db *DB) CreateExercise(ctx context.Context, userID uuid.UUID, name string) (*models.ExerciseDefinition, error) {
	e := models.ExerciseDefinition{ID: uuid.New(), UserID: userID, Name: name}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercise_definitions (id, user_id, name) VALUES ($1, $2, $3)
		 RETURNING created_at`,
		e.ID, e.UserID, e.Name).Scan(&e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_user_exercise_name") {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &e, nil
}

// GetExercise retrieves one exercise definition owned by the user.
func (db *DB) GetExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*models.ExerciseDefinition, error) {
	var e models.ExerciseDefinition
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at
		 FROM exercise_definitions
		 WHERE id = $1 AND user_id = $2`,
		exerciseID, userID).Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}
	return &e, nil
}

// RenameExercise updates the name of an owned exercise definition. Existing
// drafts and completed history keep the name they snapshotted.
func (db *DB) RenameExercise(ctx context.Context, userID, exerciseID uuid.UUID, name string) (*models.ExerciseDefinition, error) {
	var e models.ExerciseDefinition
	err := db.Pool.QueryRow(ctx,
		`UPDATE exercise_definitions SET name = $3
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, created_at`,
		exerciseID, userID, name).Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err, "uq_user_exercise_name") {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("renaming exercise: %w", err)
	}
	return &e, nil
}

// DeleteExercise removes an owned exercise definition. Returns ErrConflict
// if completed sets still reference it; history is never silently orphaned.
func (db *DB) DeleteExercise(ctx context.Context, userID, exerciseID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercise_definitions WHERE id = $1 AND user_id = $2`,
		exerciseID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
