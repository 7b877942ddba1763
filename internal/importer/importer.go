package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/scoring"
	"github.com/claude/liftlog/internal/storage"
)

// Store is the data-layer surface the importer needs.
type Store interface {
	ListExercises(ctx context.Context, userID uuid.UUID) ([]models.ExerciseDefinition, error)
	CreateExercise(ctx context.Context, userID uuid.UUID, name string) (*models.ExerciseDefinition, error)
	InsertCompletedSession(ctx context.Context, session models.CompletedSession, pending []scoring.PendingSet) (*models.CompletedSessionDetail, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Result summarizes an import run.
type Result struct {
	SessionsImported int      `json:"sessions_imported"`
	SetsImported     int      `json:"sets_imported"`
	SetsSkipped      int      `json:"sets_skipped"`
	ExercisesCreated []string `json:"exercises_created,omitempty"`
}

// Importer writes parsed training logs for one user.
type Importer struct {
	store Store
	log   *slog.Logger
}

// New creates an Importer.
func New(store Store, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Run parses the export and persists every session as a completed session
// with scored sets. Exercise names are matched case-insensitively against the
// user's existing definitions; unknown names are created. Sets with zero
// weight or zero reps (bodyweight rows, aborted sets) are skipped and do not
// consume set numbers, matching what a live finish records.
func (imp *Importer) Run(ctx context.Context, userID uuid.UUID, r io.Reader) (*Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	existing, err := imp.store.ListExercises(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	byName := make(map[string]uuid.UUID, len(existing))
	for _, e := range existing {
		byName[strings.ToLower(e.Name)] = e.ID
	}

	var result Result
	for _, session := range sessions {
		pending, total, skipped, err := imp.collect(ctx, userID, session, byName, &result)
		if err != nil {
			return nil, err
		}

		completed := models.CompletedSession{
			ID:           uuid.New(),
			UserID:       userID,
			StartedAt:    session.Date,
			CompletedAt:  session.Date.Add(session.Duration),
			SessionScore: total,
		}
		if _, err := imp.store.InsertCompletedSession(ctx, completed, pending); err != nil {
			return nil, fmt.Errorf("importing session %q (%s): %w",
				session.Name, session.Date.Format(time.DateOnly), err)
		}

		result.SessionsImported++
		result.SetsImported += len(pending)
		result.SetsSkipped += skipped
		imp.log.Info("imported session",
			"name", session.Name,
			"date", session.Date.Format(time.DateOnly),
			"sets", len(pending),
			"score", total,
		)
	}
	return &result, nil
}

// collect resolves exercises and scores the session's valid sets with dense
// 1-based set numbers per exercise.
func (imp *Importer) collect(ctx context.Context, userID uuid.UUID, session Session, byName map[string]uuid.UUID, result *Result) ([]scoring.PendingSet, float64, int, error) {
	var pending []scoring.PendingSet
	var total float64
	var skipped int

	for _, exercise := range session.Exercises {
		defID, ok := byName[strings.ToLower(exercise.Name)]
		if !ok {
			def, err := imp.store.CreateExercise(ctx, userID, exercise.Name)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("creating exercise %q: %w", exercise.Name, err)
			}
			defID = def.ID
			byName[strings.ToLower(exercise.Name)] = defID
			result.ExercisesCreated = append(result.ExercisesCreated, def.Name)
		}

		setNumber := 0
		for _, set := range exercise.Sets {
			if set.Reps <= 0 || set.WeightKg <= 0 {
				skipped++
				continue
			}
			setNumber++
			score := scoring.Epley(set.WeightKg, set.Reps)
			total += score
			pending = append(pending, scoring.PendingSet{
				ExerciseDefinitionID: defID,
				SetNumber:            setNumber,
				Reps:                 set.Reps,
				Weight:               set.WeightKg,
				EpleyScore:           score,
			})
		}
	}
	return pending, total, skipped, nil
}
