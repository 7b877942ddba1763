package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. PasswordHash never leaves the storage layer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExerciseDefinition is a user-scoped named exercise. Names are unique per
// user; the id is what drafts, templates and completed sets reference.
type ExerciseDefinition struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Split is a named collection of ordered templates. At most one split is
// active per user at a time.
type Split struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Template is an ordered, reusable list of exercises within a split.
type Template struct {
	ID        uuid.UUID `json:"id"`
	SplitID   uuid.UUID `json:"split_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// TemplateDetail is a template with its exercises in position order.
type TemplateDetail struct {
	Template
	Exercises []ExerciseDefinition `json:"exercises"`
}

// SplitDetail is a split with its templates and their exercises.
type SplitDetail struct {
	Split
	Templates []TemplateDetail `json:"templates"`
}

// WorkoutDraft is the single mutable in-progress session a user can hold.
type WorkoutDraft struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"-"`
	TemplateID *uuid.UUID  `json:"template_id"`
	Data       SessionData `json:"session_data"`
	StartedAt  time.Time   `json:"started_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CompletedSession is the immutable record a draft becomes when finished.
// TemplateID is a snapshot of the draft's originating template, kept even if
// that template is later deleted.
type CompletedSession struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"-"`
	TemplateID   *uuid.UUID `json:"template_id"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  time.Time  `json:"completed_at"`
	SessionScore float64    `json:"session_score"`
}

// CompletedSet is one permanently recorded set. EpleyScore is computed once
// at finalize time and never recomputed.
type CompletedSet struct {
	ID                   uuid.UUID `json:"id"`
	SessionID            uuid.UUID `json:"-"`
	ExerciseDefinitionID uuid.UUID `json:"exercise_definition_id"`
	SetNumber            int       `json:"set_number"`
	Reps                 int       `json:"reps"`
	Weight               float64   `json:"weight"`
	EpleyScore           float64   `json:"epley_score"`
}

// CompletedSessionDetail is a completed session with its sets, exercise order
// preserved from the draft and sets in set-number order within each exercise.
type CompletedSessionDetail struct {
	CompletedSession
	CompletedSets []CompletedSet `json:"completed_sets"`
}
