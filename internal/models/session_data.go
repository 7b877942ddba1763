package models

import "github.com/google/uuid"

// SessionData is the nested draft payload stored as a single JSONB document.
// The client owns the editing logic and pushes the whole structure back on
// every sync, so it is never queried by sub-field or normalized into rows.
type SessionData struct {
	Exercises []ExerciseEntry `json:"exercises"`
}

// ExerciseEntry is one exercise within a draft. Name is copied from the
// exercise definition at the moment the entry is created; a later rename of
// the definition does not reach back into existing drafts.
type ExerciseEntry struct {
	DefinitionID uuid.UUID  `json:"definition_id"`
	Name         string     `json:"name"`
	Sets         []SetEntry `json:"sets"`
	IsDone       bool       `json:"is_done"`
}

// SetEntry is one set within a draft exercise. Reps and Weight stay nil until
// the user fills them in; only entries with both strictly positive survive
// finalization.
type SetEntry struct {
	Reps      *int     `json:"reps"`
	Weight    *float64 `json:"weight"`
	Completed bool     `json:"completed"`
}

// NewExerciseEntry builds a fresh draft entry for an exercise definition,
// with a single empty set.
func NewExerciseEntry(def ExerciseDefinition) ExerciseEntry {
	return ExerciseEntry{
		DefinitionID: def.ID,
		Name:         def.Name,
		Sets:         []SetEntry{{}},
	}
}

// ContainsExercise reports whether the draft already has an entry for the
// given definition id.
func (d SessionData) ContainsExercise(definitionID uuid.UUID) bool {
	for _, ex := range d.Exercises {
		if ex.DefinitionID == definitionID {
			return true
		}
	}
	return false
}

// IsValid reports whether the set counts toward finalization: both values
// present and strictly positive.
func (s SetEntry) IsValid() bool {
	return s.Reps != nil && s.Weight != nil && *s.Reps > 0 && *s.Weight > 0
}
