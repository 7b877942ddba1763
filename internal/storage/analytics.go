package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionAnalytics is a completed session annotated with the template's
// current name. The name is a live join at query time; it goes null when the
// template has been deleted, while the snapshot template_id stays.
type SessionAnalytics struct {
	ID           uuid.UUID  `json:"id"`
	TemplateID   *uuid.UUID `json:"template_id"`
	TemplateName *string    `json:"template_name"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  time.Time  `json:"completed_at"`
	SessionScore float64    `json:"session_score"`
}

// ListCompletedSessions returns the user's completed sessions newest first,
// optionally filtered to one template.
func (db *DB) ListCompletedSessions(ctx context.Context, userID uuid.UUID, templateID *uuid.UUID) ([]SessionAnalytics, error) {
	query := `SELECT cs.id, cs.template_id, t.name, cs.started_at, cs.completed_at, cs.session_score
		 FROM completed_sessions cs
		 LEFT JOIN templates t ON t.id = cs.template_id
		 WHERE cs.user_id = $1`
	args := []any{userID}
	if templateID != nil {
		query += ` AND cs.template_id = $2`
		args = append(args, *templateID)
	}
	query += ` ORDER BY cs.completed_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completed sessions: %w", err)
	}
	defer rows.Close()

	var result []SessionAnalytics
	for rows.Next() {
		var s SessionAnalytics
		if err := rows.Scan(&s.ID, &s.TemplateID, &s.TemplateName, &s.StartedAt, &s.CompletedAt, &s.SessionScore); err != nil {
			return nil, fmt.Errorf("scanning completed session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SetAnalytics is one recorded set inside an exercise history entry.
type SetAnalytics struct {
	SetNumber  int     `json:"set_number"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	EpleyScore float64 `json:"epley_score"`
}

// ExerciseSessionHistory is one session's worth of an exercise: its sets and
// their combined score.
type ExerciseSessionHistory struct {
	SessionID  uuid.UUID      `json:"session_id"`
	Date       time.Time      `json:"date"`
	TotalScore float64        `json:"total_score"`
	Sets       []SetAnalytics `json:"sets"`
}

// ExerciseHistory returns every session in which the exercise was performed,
// oldest first so charts read left to right chronologically (the opposite of
// ListCompletedSessions). Returns ErrNotFound if the exercise is not owned by
// the user.
func (db *DB) ExerciseHistory(ctx context.Context, userID, exerciseID uuid.UUID) ([]ExerciseSessionHistory, error) {
	if _, err := db.GetExercise(ctx, userID, exerciseID); err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.completed_at, cs.set_number, cs.reps, cs.weight, cs.epley_score
		 FROM completed_sets cs
		 JOIN completed_sessions s ON s.id = cs.session_id
		 WHERE cs.exercise_definition_id = $1 AND s.user_id = $2
		 ORDER BY s.completed_at, s.id, cs.set_number`,
		exerciseID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	var history []ExerciseSessionHistory
	for rows.Next() {
		var sessionID uuid.UUID
		var completedAt time.Time
		var set SetAnalytics
		if err := rows.Scan(&sessionID, &completedAt, &set.SetNumber, &set.Reps, &set.Weight, &set.EpleyScore); err != nil {
			return nil, fmt.Errorf("scanning exercise history: %w", err)
		}

		if len(history) == 0 || history[len(history)-1].SessionID != sessionID {
			history = append(history, ExerciseSessionHistory{SessionID: sessionID, Date: completedAt})
		}
		entry := &history[len(history)-1]
		entry.TotalScore += set.EpleyScore
		entry.Sets = append(entry.Sets, set)
	}
	return history, rows.Err()
}

// ExerciseSummary holds lifetime statistics for one exercise.
type ExerciseSummary struct {
	ExerciseID          uuid.UUID  `json:"exercise_id"`
	ExerciseName        string     `json:"exercise_name"`
	TotalSessions       int        `json:"total_sessions"`
	TotalSets           int        `json:"total_sets"`
	TotalVolume         float64    `json:"total_volume"`
	BestSetWeight       float64    `json:"best_set_weight"`
	BestSetReps         int        `json:"best_set_reps"`
	BestSetEpleyScore   float64    `json:"best_set_epley_score"`
	AverageSessionScore float64    `json:"average_session_score"`
	LastPerformed       *time.Time `json:"last_performed"`
}

// GetExerciseSummary computes lifetime statistics for an owned exercise. An
// exercise with no recorded sets yields an all-zero summary, not an error.
// Total volume is Σ weight*reps, independent of the epley scores. When
// several sets share the best score, the first one encountered stays the best
// set; callers should not rely on a stronger tie-break.
func (db *DB) GetExerciseSummary(ctx context.Context, userID, exerciseID uuid.UUID) (*ExerciseSummary, error) {
	exercise, err := db.GetExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	summary := ExerciseSummary{ExerciseID: exercise.ID, ExerciseName: exercise.Name}

	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.completed_at, cs.reps, cs.weight, cs.epley_score
		 FROM completed_sets cs
		 JOIN completed_sessions s ON s.id = cs.session_id
		 WHERE cs.exercise_definition_id = $1 AND s.user_id = $2
		 ORDER BY s.completed_at, s.id, cs.set_number`,
		exerciseID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sets: %w", err)
	}
	defer rows.Close()

	sessionScores := make(map[uuid.UUID]float64)
	for rows.Next() {
		var sessionID uuid.UUID
		var completedAt time.Time
		var reps int
		var weight, score float64
		if err := rows.Scan(&sessionID, &completedAt, &reps, &weight, &score); err != nil {
			return nil, fmt.Errorf("scanning exercise set: %w", err)
		}

		summary.TotalSets++
		summary.TotalVolume += weight * float64(reps)
		sessionScores[sessionID] += score

		if score > summary.BestSetEpleyScore {
			summary.BestSetEpleyScore = score
			summary.BestSetWeight = weight
			summary.BestSetReps = reps
		}
		if summary.LastPerformed == nil || completedAt.After(*summary.LastPerformed) {
			t := completedAt
			summary.LastPerformed = &t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary.TotalSessions = len(sessionScores)
	if summary.TotalSessions > 0 {
		var sum float64
		for _, s := range sessionScores {
			sum += s
		}
		summary.AverageSessionScore = sum / float64(summary.TotalSessions)
	}
	return &summary, nil
}
