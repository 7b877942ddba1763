package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// TestUserIDFromContextDefault verifies uuid.Nil comes back when no user has
// been bound.
func TestUserIDFromContextDefault(t *testing.T) {
	if id := UserIDFromContext(context.Background()); id != uuid.Nil {
		t.Errorf("UserIDFromContext(empty) = %s, want uuid.Nil", id)
	}
}

// TestUserIDFromContextSet verifies the user ID round-trips through the
// context.
func TestUserIDFromContextSet(t *testing.T) {
	want := uuid.New()
	ctx := WithUserID(context.Background(), want)
	if id := UserIDFromContext(ctx); id != want {
		t.Errorf("UserIDFromContext = %s, want %s", id, want)
	}
}

// stubSource serves a fixed exercise list; the other DataSource methods are
// not exercised by these tests.
type stubSource struct {
	exercises []models.ExerciseDefinition
}

func (s *stubSource) ListExercises(context.Context, uuid.UUID) ([]models.ExerciseDefinition, error) {
	return s.exercises, nil
}

func (s *stubSource) ListTemplates(context.Context, uuid.UUID, *uuid.UUID) ([]models.Template, error) {
	return nil, nil
}

func (s *stubSource) ListCompletedSessions(context.Context, uuid.UUID, *uuid.UUID) ([]storage.SessionAnalytics, error) {
	return nil, nil
}

func (s *stubSource) ExerciseHistory(context.Context, uuid.UUID, uuid.UUID) ([]storage.ExerciseSessionHistory, error) {
	return nil, nil
}

func (s *stubSource) GetExerciseSummary(context.Context, uuid.UUID, uuid.UUID) (*storage.ExerciseSummary, error) {
	return nil, nil
}

func TestResolveExercise(t *testing.T) {
	h := &handlers{
		ds: &stubSource{exercises: []models.ExerciseDefinition{
			{ID: uuid.New(), Name: "Bench Press"},
			{ID: uuid.New(), Name: "Incline Bench Press"},
			{ID: uuid.New(), Name: "Squat"},
		}},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	ctx := context.Background()
	uid := uuid.New()

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"exact", "Squat", "Squat", false},
		{"case insensitive", "bench press", "Bench Press", false},
		{"unambiguous substring", "squ", "Squat", false},
		{"ambiguous substring", "bench", "", true},
		{"unknown", "deadlift", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := h.resolveExercise(ctx, uid, tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolveExercise(%q) succeeded with %q, want error", tt.query, def.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveExercise(%q): %v", tt.query, err)
			}
			if def.Name != tt.want {
				t.Errorf("resolveExercise(%q) = %q, want %q", tt.query, def.Name, tt.want)
			}
		})
	}
}
