package importer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/scoring"
)

// recordingStore captures what the importer writes.
type recordingStore struct {
	exercises []models.ExerciseDefinition
	sessions  []models.CompletedSession
	pending   [][]scoring.PendingSet
}

func (s *recordingStore) ListExercises(context.Context, uuid.UUID) ([]models.ExerciseDefinition, error) {
	return s.exercises, nil
}

func (s *recordingStore) CreateExercise(_ context.Context, userID uuid.UUID, name string) (*models.ExerciseDefinition, error) {
	def := models.ExerciseDefinition{ID: uuid.New(), UserID: userID, Name: name}
	s.exercises = append(s.exercises, def)
	return &def, nil
}

func (s *recordingStore) InsertCompletedSession(_ context.Context, session models.CompletedSession, pending []scoring.PendingSet) (*models.CompletedSessionDetail, error) {
	s.sessions = append(s.sessions, session)
	s.pending = append(s.pending, pending)
	return &models.CompletedSessionDetail{CompletedSession: session}, nil
}

func testImporter(store Store) *Importer {
	return New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunImportsAndScores(t *testing.T) {
	store := &recordingStore{}
	userID := uuid.New()

	result, err := testImporter(store).Run(context.Background(), userID, strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.SessionsImported != 2 {
		t.Errorf("sessions imported = %d, want 2", result.SessionsImported)
	}
	if result.SetsImported != 8 {
		t.Errorf("sets imported = %d, want 8", result.SetsImported)
	}
	if len(result.ExercisesCreated) != 3 {
		t.Errorf("exercises created = %v, want 3 new definitions", result.ExercisesCreated)
	}

	// Bench session: 102.5x6 + 102.5x6 + 100x6, scored with the same formula
	// as a live finish.
	bench := store.sessions[1]
	want := 2*scoring.Epley(102.5, 6) + scoring.Epley(100, 6)
	if diff := bench.SessionScore - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("bench session score = %v, want %v", bench.SessionScore, want)
	}
	if bench.TemplateID != nil {
		t.Error("imported sessions must not claim a template")
	}
	if got := bench.CompletedAt.Sub(bench.StartedAt); got.Minutes() != 72 {
		t.Errorf("bench duration = %v, want 1h12m", got)
	}
}

func TestRunReusesExistingExercises(t *testing.T) {
	userID := uuid.New()
	existing := models.ExerciseDefinition{ID: uuid.New(), UserID: userID, Name: "bench press"}
	store := &recordingStore{exercises: []models.ExerciseDefinition{existing}}

	input := `"Push";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press"
#;KG;REPS
1;100;5
`
	result, err := testImporter(store).Run(context.Background(), userID, strings.NewReader(input))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.ExercisesCreated) != 0 {
		t.Errorf("created %v, want case-insensitive match against existing", result.ExercisesCreated)
	}
	if got := store.pending[0][0].ExerciseDefinitionID; got != existing.ID {
		t.Errorf("set references %s, want existing definition %s", got, existing.ID)
	}
}

func TestRunSkipsZeroSets(t *testing.T) {
	store := &recordingStore{}
	input := `"Push";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press"
#;KG;REPS
1;0;12
2;100;5
3;100;0
`
	result, err := testImporter(store).Run(context.Background(), uuid.New(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.SetsImported != 1 || result.SetsSkipped != 2 {
		t.Errorf("imported=%d skipped=%d, want 1 and 2", result.SetsImported, result.SetsSkipped)
	}
	if got := store.pending[0][0].SetNumber; got != 1 {
		t.Errorf("surviving set numbered %d, want 1 (skipped sets consume no numbers)", got)
	}
}
