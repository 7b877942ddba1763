package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/liftlog/internal/models"
)

// ListSplits returns the user's splits, newest first.
func (db *DB) ListSplits(ctx context.Context, userID uuid.UUID) ([]models.Split, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, is_active, created_at
		 FROM splits
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying splits: %w", err)
	}
	defer rows.Close()

	var result []models.Split
	for rows.Next() {
		var s models.Split
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// CreateSplit inserts a new split. New splits always start inactive.
func (db *DB) CreateSplit(ctx context.Context, userID uuid.UUID, name string) (*models.Split, error) {
	s := models.Split{ID: uuid.New(), UserID: userID, Name: name}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO splits (id, user_id, name) VALUES ($1, $2, $3)
		 RETURNING is_active, created_at`,
		s.ID, s.UserID, s.Name).Scan(&s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting split: %w", err)
	}
	return &s, nil
}

// GetSplitDetail retrieves a split with its templates and their exercises,
// both in position order.
func (db *DB) GetSplitDetail(ctx context.Context, userID, splitID uuid.UUID) (*models.SplitDetail, error) {
	var detail models.SplitDetail
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, is_active, created_at
		 FROM splits
		 WHERE id = $1 AND user_id = $2`,
		splitID, userID).Scan(&detail.ID, &detail.UserID, &detail.Name, &detail.IsActive, &detail.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying split: %w", err)
	}

	templates, err := db.listTemplates(ctx, userID, &splitID)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		exercises, err := db.templateExercises(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		detail.Templates = append(detail.Templates, models.TemplateDetail{Template: t, Exercises: exercises})
	}
	return &detail, nil
}

// UpdateSplit changes a split's name and/or active flag. Activating a split
// deactivates the user's other splits in the same transaction, keeping at
// most one split active per user.
func (db *DB) UpdateSplit(ctx context.Context, userID, splitID uuid.UUID, name *string, isActive *bool) (*models.Split, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var s models.Split
	err = tx.QueryRow(ctx,
		`SELECT id, user_id, name, is_active, created_at
		 FROM splits
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		splitID, userID).Scan(&s.ID, &s.UserID, &s.Name, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying split: %w", err)
	}

	if name != nil {
		s.Name = *name
	}
	if isActive != nil {
		if *isActive && !s.IsActive {
			if _, err := tx.Exec(ctx,
				`UPDATE splits SET is_active = false WHERE user_id = $1 AND id <> $2 AND is_active`,
				userID, splitID); err != nil {
				return nil, fmt.Errorf("deactivating other splits: %w", err)
			}
		}
		s.IsActive = *isActive
	}

	if _, err := tx.Exec(ctx,
		`UPDATE splits SET name = $2, is_active = $3 WHERE id = $1`,
		s.ID, s.Name, s.IsActive); err != nil {
		return nil, fmt.Errorf("updating split: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing split update: %w", err)
	}
	return &s, nil
}

// DeleteSplit removes a split and, via cascade, its templates.
func (db *DB) DeleteSplit(ctx context.Context, userID, splitID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM splits WHERE id = $1 AND user_id = $2`,
		splitID, userID)
	if err != nil {
		return fmt.Errorf("deleting split: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
