package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListExercises(ctx context.Context, userID uuid.UUID) ([]models.ExerciseDefinition, error)
	ListTemplates(ctx context.Context, userID uuid.UUID, splitID *uuid.UUID) ([]models.Template, error)
	ListCompletedSessions(ctx context.Context, userID uuid.UUID, templateID *uuid.UUID) ([]storage.SessionAnalytics, error)
	ExerciseHistory(ctx context.Context, userID, exerciseID uuid.UUID) ([]storage.ExerciseSessionHistory, error)
	GetExerciseSummary(ctx context.Context, userID, exerciseID uuid.UUID) (*storage.ExerciseSummary, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
