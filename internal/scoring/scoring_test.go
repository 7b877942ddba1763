package scoring

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

// TestEpleyFormula verifies the score against hand-computed values.
func TestEpleyFormula(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		reps   int
		want   float64
	}{
		{"ten kg five reps", 10, 5, 10 * (1 + 5.0/30)},
		{"single rep", 100, 1, 100 * (1 + 1.0/30)},
		{"thirty reps doubles", 50, 30, 100},
		{"fractional weight", 62.5, 8, 62.5 * (1 + 8.0/30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Epley(tt.weight, tt.reps)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Epley(%v, %d) = %v, want %v", tt.weight, tt.reps, got, tt.want)
			}
		})
	}
}

// TestEpleyMonotonic verifies the score is strictly increasing in both
// weight and reps.
func TestEpleyMonotonic(t *testing.T) {
	if Epley(11, 5) <= Epley(10, 5) {
		t.Error("score should increase with weight")
	}
	if Epley(10, 6) <= Epley(10, 5) {
		t.Error("score should increase with reps")
	}
}

// TestCollectSkipsInvalidSets verifies that mixed valid and invalid sets
// [(10kg,5reps), (0kg,5reps), (10kg,0reps)] produce exactly one completed
// set numbered 1, and the session total equals that set's score.
func TestCollectSkipsInvalidSets(t *testing.T) {
	exID := uuid.New()
	data := models.SessionData{
		Exercises: []models.ExerciseEntry{
			{
				DefinitionID: exID,
				Name:         "Bench Press",
				Sets: []models.SetEntry{
					{Reps: intPtr(5), Weight: floatPtr(10)},
					{Reps: intPtr(5), Weight: floatPtr(0)},
					{Reps: intPtr(0), Weight: floatPtr(10)},
				},
			},
		},
	}

	sets, total := Collect(data)
	if len(sets) != 1 {
		t.Fatalf("sets = %d, want 1", len(sets))
	}
	want := 10 * (1 + 5.0/30)
	if sets[0].SetNumber != 1 {
		t.Errorf("set_number = %d, want 1", sets[0].SetNumber)
	}
	if math.Abs(sets[0].EpleyScore-want) > 1e-9 {
		t.Errorf("epley_score = %v, want %v", sets[0].EpleyScore, want)
	}
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("total = %v, want %v", total, want)
	}
}

// TestCollectNilFieldsSkipped verifies empty sets (nil reps/weight, the shape
// every set starts life in) never reach the output.
func TestCollectNilFieldsSkipped(t *testing.T) {
	data := models.SessionData{
		Exercises: []models.ExerciseEntry{
			{DefinitionID: uuid.New(), Sets: []models.SetEntry{{}, {Reps: intPtr(8)}, {Weight: floatPtr(40)}}},
		},
	}
	sets, total := Collect(data)
	if len(sets) != 0 || total != 0 {
		t.Errorf("got %d sets, total %v; want none", len(sets), total)
	}
}

// TestCollectNumbersPerExercise verifies set numbers restart at 1 for each
// exercise and stay dense across skipped sets.
func TestCollectNumbersPerExercise(t *testing.T) {
	exA, exB := uuid.New(), uuid.New()
	data := models.SessionData{
		Exercises: []models.ExerciseEntry{
			{
				DefinitionID: exA,
				Sets: []models.SetEntry{
					{Reps: intPtr(5), Weight: floatPtr(60)},
					{}, // skipped, must not consume a number
					{Reps: intPtr(5), Weight: floatPtr(60)},
				},
			},
			{
				DefinitionID: exB,
				Sets: []models.SetEntry{
					{Reps: intPtr(10), Weight: floatPtr(20)},
				},
			},
		},
	}

	sets, total := Collect(data)
	if len(sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(sets))
	}
	if sets[0].SetNumber != 1 || sets[1].SetNumber != 2 {
		t.Errorf("exercise A numbers = %d,%d, want 1,2", sets[0].SetNumber, sets[1].SetNumber)
	}
	if sets[2].SetNumber != 1 {
		t.Errorf("exercise B first set number = %d, want 1", sets[2].SetNumber)
	}
	if sets[2].ExerciseDefinitionID != exB {
		t.Error("exercise order not preserved")
	}

	wantTotal := 2*Epley(60, 5) + Epley(20, 10)
	if math.Abs(total-wantTotal) > 1e-9 {
		t.Errorf("total = %v, want %v", total, wantTotal)
	}
}

// TestCollectEmptyDraft verifies an empty draft finishes with zero score and
// no sets.
func TestCollectEmptyDraft(t *testing.T) {
	sets, total := Collect(models.SessionData{})
	if len(sets) != 0 || total != 0 {
		t.Errorf("got %d sets, total %v; want empty", len(sets), total)
	}
}
