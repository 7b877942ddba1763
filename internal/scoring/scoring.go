// Package scoring computes per-set Epley scores and turns draft session data
// into the rows a finished workout persists.
package scoring

import (
	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// Epley returns weight * (1 + reps/30), the per-set performance score.
// Callers must filter out reps <= 0 and weight <= 0 first; the formula is
// scaled as a set metric, not a true one-rep-max estimate.
func Epley(weight float64, reps int) float64 {
	return weight * (1 + float64(reps)/30)
}

// PendingSet is a scored set ready to be persisted by the finalize
// transaction.
type PendingSet struct {
	ExerciseDefinitionID uuid.UUID
	SetNumber            int
	Reps                 int
	Weight               float64
	EpleyScore           float64
}

// Collect walks the draft data in exercise and set order and returns the
// valid sets with their scores, plus the session total. Set numbers are dense
// and 1-based per exercise: invalid sets are skipped and do not consume a
// number. An all-invalid or empty draft yields no sets and a zero total,
// which is a legal finish.
func Collect(data models.SessionData) ([]PendingSet, float64) {
	var pending []PendingSet
	var total float64

	for _, exercise := range data.Exercises {
		setNumber := 0
		for _, set := range exercise.Sets {
			if !set.IsValid() {
				continue
			}
			setNumber++
			score := Epley(*set.Weight, *set.Reps)
			total += score
			pending = append(pending, PendingSet{
				ExerciseDefinitionID: exercise.DefinitionID,
				SetNumber:            setNumber,
				Reps:                 *set.Reps,
				Weight:               *set.Weight,
				EpleyScore:           score,
			})
		}
	}
	return pending, total
}
