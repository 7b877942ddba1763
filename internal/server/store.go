package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// Store abstracts the data layer for HTTP handlers. *storage.DB is the real
// implementation; tests substitute an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	ListExercises(ctx context.Context, userID uuid.UUID) ([]models.ExerciseDefinition, error)
	CreateExercise(ctx context.Context, userID uuid.UUID, name string) (*models.ExerciseDefinition, error)
	GetExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*models.ExerciseDefinition, error)
	RenameExercise(ctx context.Context, userID, exerciseID uuid.UUID, name string) (*models.ExerciseDefinition, error)
	DeleteExercise(ctx context.Context, userID, exerciseID uuid.UUID) error

	ListSplits(ctx context.Context, userID uuid.UUID) ([]models.Split, error)
	CreateSplit(ctx context.Context, userID uuid.UUID, name string) (*models.Split, error)
	GetSplitDetail(ctx context.Context, userID, splitID uuid.UUID) (*models.SplitDetail, error)
	UpdateSplit(ctx context.Context, userID, splitID uuid.UUID, name *string, isActive *bool) (*models.Split, error)
	DeleteSplit(ctx context.Context, userID, splitID uuid.UUID) error

	ListTemplates(ctx context.Context, userID uuid.UUID, splitID *uuid.UUID) ([]models.Template, error)
	CreateTemplate(ctx context.Context, userID, splitID uuid.UUID, name string, position int) (*models.Template, error)
	GetTemplateDetail(ctx context.Context, userID, templateID uuid.UUID) (*models.TemplateDetail, error)
	UpdateTemplate(ctx context.Context, userID, templateID uuid.UUID, name *string, position *int) (*models.Template, error)
	DeleteTemplate(ctx context.Context, userID, templateID uuid.UUID) error
	AddTemplateExercise(ctx context.Context, userID, templateID, exerciseID uuid.UUID, position int) (*models.TemplateDetail, error)
	RemoveTemplateExercise(ctx context.Context, userID, templateID, exerciseID uuid.UUID) error
	ReorderTemplateExercises(ctx context.Context, userID, templateID uuid.UUID, order []storage.ExercisePosition) (*models.TemplateDetail, error)

	StartDraft(ctx context.Context, userID uuid.UUID, templateID *uuid.UUID) (*models.WorkoutDraft, error)
	GetDraft(ctx context.Context, userID uuid.UUID) (*models.WorkoutDraft, error)
	ReplaceDraftData(ctx context.Context, userID uuid.UUID, data models.SessionData) (*models.WorkoutDraft, error)
	AddDraftExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*models.WorkoutDraft, error)
	DiscardDraft(ctx context.Context, userID uuid.UUID) error
	FinishDraft(ctx context.Context, userID uuid.UUID) (*models.CompletedSessionDetail, error)

	ListCompletedSessions(ctx context.Context, userID uuid.UUID, templateID *uuid.UUID) ([]storage.SessionAnalytics, error)
	ExerciseHistory(ctx context.Context, userID, exerciseID uuid.UUID) ([]storage.ExerciseSessionHistory, error)
	GetExerciseSummary(ctx context.Context, userID, exerciseID uuid.UUID) (*storage.ExerciseSummary, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)
