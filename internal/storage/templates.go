package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/liftlog/internal/models"
)

// ListTemplates returns the user's templates in position order, optionally
// restricted to one split.
func (db *DB) ListTemplates(ctx context.Context, userID uuid.UUID, splitID *uuid.UUID) ([]models.Template, error) {
	return db.listTemplates(ctx, userID, splitID)
}

func (db *DB) listTemplates(ctx context.Context, userID uuid.UUID, splitID *uuid.UUID) ([]models.Template, error) {
	query := `SELECT t.id, t.split_id, t.name, t.position, t.created_at
		 FROM templates t
		 JOIN splits s ON s.id = t.split_id
		 WHERE s.user_id = $1`
	args := []any{userID}
	if splitID != nil {
		query += ` AND t.split_id = $2`
		args = append(args, *splitID)
	}
	query += ` ORDER BY t.position`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.SplitID, &t.Name, &t.Position, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// CreateTemplate inserts a template into a split the user owns.
func (db *DB) CreateTemplate(ctx context.Context, userID, splitID uuid.UUID, name string, position int) (*models.Template, error) {
	// Ownership check doubles as existence check.
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM splits WHERE id = $1 AND user_id = $2)`,
		splitID, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking split ownership: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	t := models.Template{ID: uuid.New(), SplitID: splitID, Name: name, Position: position}
	err = db.Pool.QueryRow(ctx,
		`INSERT INTO templates (id, split_id, name, position) VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		t.ID, t.SplitID, t.Name, t.Position).Scan(&t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting template: %w", err)
	}
	return &t, nil
}

// GetTemplateDetail retrieves a template the user owns (directly through its
// split) with its exercises in position order.
func (db *DB) GetTemplateDetail(ctx context.Context, userID, templateID uuid.UUID) (*models.TemplateDetail, error) {
	var detail models.TemplateDetail
	err := db.Pool.QueryRow(ctx,
		`SELECT t.id, t.split_id, t.name, t.position, t.created_at
		 FROM templates t
		 JOIN splits s ON s.id = t.split_id
		 WHERE t.id = $1 AND s.user_id = $2`,
		templateID, userID).Scan(&detail.ID, &detail.SplitID, &detail.Name, &detail.Position, &detail.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}

	exercises, err := db.templateExercises(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Exercises = exercises
	return &detail, nil
}

// templateExercises returns a template's exercise definitions in link
// position order.
func (db *DB) templateExercises(ctx context.Context, templateID uuid.UUID) ([]models.ExerciseDefinition, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT e.id, e.user_id, e.name, e.created_at
		 FROM template_exercises te
		 JOIN exercise_definitions e ON e.id = te.exercise_definition_id
		 WHERE te.template_id = $1
		 ORDER BY te.position`,
		templateID)
	if err != nil {
		return nil, fmt.Errorf("querying template exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseDefinition
	for rows.Next() {
		var e models.ExerciseDefinition
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// UpdateTemplate changes a template's name and/or position.
func (db *DB) UpdateTemplate(ctx context.Context, userID, templateID uuid.UUID, name *string, position *int) (*models.Template, error) {
	var t models.Template
	err := db.Pool.QueryRow(ctx,
		`UPDATE templates t SET
		     name = COALESCE($3, t.name),
		     position = COALESCE($4, t.position)
		 FROM splits s
		 WHERE t.id = $1 AND s.id = t.split_id AND s.user_id = $2
		 RETURNING t.id, t.split_id, t.name, t.position, t.created_at`,
		templateID, userID, name, position).Scan(&t.ID, &t.SplitID, &t.Name, &t.Position, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating template: %w", err)
	}
	return &t, nil
}

// DeleteTemplate removes a template and its exercise links. Completed
// sessions that referenced it keep their snapshot template id.
func (db *DB) DeleteTemplate(ctx context.Context, userID, templateID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM templates t
		 USING splits s
		 WHERE t.id = $1 AND s.id = t.split_id AND s.user_id = $2`,
		templateID, userID)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTemplateExercise links an owned exercise into an owned template.
// Returns ErrConflict if the exercise is already in the template.
func (db *DB) AddTemplateExercise(ctx context.Context, userID, templateID, exerciseID uuid.UUID, position int) (*models.TemplateDetail, error) {
	if _, err := db.GetTemplateDetail(ctx, userID, templateID); err != nil {
		return nil, err
	}
	if _, err := db.GetExercise(ctx, userID, exerciseID); err != nil {
		return nil, err
	}

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO template_exercises (id, template_id, exercise_definition_id, position)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New(), templateID, exerciseID, position)
	if err != nil {
		if isUniqueViolation(err, "uq_template_exercise") {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("inserting template exercise: %w", err)
	}
	return db.GetTemplateDetail(ctx, userID, templateID)
}

// RemoveTemplateExercise unlinks an exercise from an owned template.
func (db *DB) RemoveTemplateExercise(ctx context.Context, userID, templateID, exerciseID uuid.UUID) error {
	if _, err := db.GetTemplateDetail(ctx, userID, templateID); err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM template_exercises
		 WHERE template_id = $1 AND exercise_definition_id = $2`,
		templateID, exerciseID)
	if err != nil {
		return fmt.Errorf("deleting template exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ExercisePosition pairs an exercise with its new position for reorders.
type ExercisePosition struct {
	ExerciseDefinitionID uuid.UUID `json:"exercise_definition_id"`
	Position             int       `json:"position"`
}

// ReorderTemplateExercises rewrites the position of every listed link in one
// transaction, so a reorder is applied whole or not at all.
func (db *DB) ReorderTemplateExercises(ctx context.Context, userID, templateID uuid.UUID, order []ExercisePosition) (*models.TemplateDetail, error) {
	if _, err := db.GetTemplateDetail(ctx, userID, templateID); err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range order {
		if _, err := tx.Exec(ctx,
			`UPDATE template_exercises SET position = $3
			 WHERE template_id = $1 AND exercise_definition_id = $2`,
			templateID, item.ExerciseDefinitionID, item.Position); err != nil {
			return nil, fmt.Errorf("updating template exercise position: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing reorder: %w", err)
	}
	return db.GetTemplateDetail(ctx, userID, templateID)
}
