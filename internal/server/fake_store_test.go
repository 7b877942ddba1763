package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/scoring"
	"github.com/claude/liftlog/internal/storage"
)

// fakeStore is an in-memory Store mirroring the relational semantics the
// handlers rely on: one draft per user, transactional finish, live template
// name joins. It keeps the handler tests honest without a database.
type fakeStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	exercises map[uuid.UUID]models.ExerciseDefinition
	splits    map[uuid.UUID]models.Split
	templates map[uuid.UUID]*models.TemplateDetail
	drafts    map[uuid.UUID]*models.WorkoutDraft // keyed by user id
	sessions  []models.CompletedSession
	sets      map[uuid.UUID][]models.CompletedSet // keyed by session id
	now       time.Time
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[uuid.UUID]*models.User),
		exercises: make(map[uuid.UUID]models.ExerciseDefinition),
		splits:    make(map[uuid.UUID]models.Split),
		templates: make(map[uuid.UUID]*models.TemplateDetail),
		drafts:    make(map[uuid.UUID]*models.WorkoutDraft),
		sets:      make(map[uuid.UUID][]models.CompletedSet),
		now:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so consecutive writes get distinct timestamps.
func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *fakeStore) CreateUser(_ context.Context, email, hash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, storage.ErrConflict
		}
	}
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: hash, CreatedAt: f.tick()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) addExercise(userID uuid.UUID, name string) models.ExerciseDefinition {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := models.ExerciseDefinition{ID: uuid.New(), UserID: userID, Name: name, CreatedAt: f.tick()}
	f.exercises[e.ID] = e
	return e
}

func (f *fakeStore) ListExercises(_ context.Context, userID uuid.UUID) ([]models.ExerciseDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.ExerciseDefinition
	for _, e := range f.exercises {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (f *fakeStore) CreateExercise(_ context.Context, userID uuid.UUID, name string) (*models.ExerciseDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.exercises {
		if e.UserID == userID && e.Name == name {
			return nil, storage.ErrConflict
		}
	}
	e := models.ExerciseDefinition{ID: uuid.New(), UserID: userID, Name: name, CreatedAt: f.tick()}
	f.exercises[e.ID] = e
	return &e, nil
}

func (f *fakeStore) GetExercise(_ context.Context, userID, exerciseID uuid.UUID) (*models.ExerciseDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[exerciseID]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

func (f *fakeStore) RenameExercise(_ context.Context, userID, exerciseID uuid.UUID, name string) (*models.ExerciseDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[exerciseID]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}
	e.Name = name
	f.exercises[exerciseID] = e
	return &e, nil
}

func (f *fakeStore) DeleteExercise(_ context.Context, userID, exerciseID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[exerciseID]
	if !ok || e.UserID != userID {
		return storage.ErrNotFound
	}
	for _, sets := range f.sets {
		for _, cs := range sets {
			if cs.ExerciseDefinitionID == exerciseID {
				return storage.ErrConflict
			}
		}
	}
	delete(f.exercises, exerciseID)
	return nil
}

func (f *fakeStore) ListSplits(_ context.Context, userID uuid.UUID) ([]models.Split, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Split
	for _, s := range f.splits {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeStore) CreateSplit(_ context.Context, userID uuid.UUID, name string) (*models.Split, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.Split{ID: uuid.New(), UserID: userID, Name: name, CreatedAt: f.tick()}
	f.splits[s.ID] = s
	return &s, nil
}

func (f *fakeStore) GetSplitDetail(_ context.Context, userID, splitID uuid.UUID) (*models.SplitDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.splits[splitID]
	if !ok || s.UserID != userID {
		return nil, storage.ErrNotFound
	}
	detail := models.SplitDetail{Split: s}
	for _, t := range f.templates {
		if t.SplitID == splitID {
			detail.Templates = append(detail.Templates, *t)
		}
	}
	sort.Slice(detail.Templates, func(i, j int) bool { return detail.Templates[i].Position < detail.Templates[j].Position })
	return &detail, nil
}

func (f *fakeStore) UpdateSplit(_ context.Context, userID, splitID uuid.UUID, name *string, isActive *bool) (*models.Split, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.splits[splitID]
	if !ok || s.UserID != userID {
		return nil, storage.ErrNotFound
	}
	if name != nil {
		s.Name = *name
	}
	if isActive != nil {
		if *isActive {
			for id, other := range f.splits {
				if other.UserID == userID && id != splitID && other.IsActive {
					other.IsActive = false
					f.splits[id] = other
				}
			}
		}
		s.IsActive = *isActive
	}
	f.splits[splitID] = s
	return &s, nil
}

func (f *fakeStore) DeleteSplit(_ context.Context, userID, splitID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.splits[splitID]
	if !ok || s.UserID != userID {
		return storage.ErrNotFound
	}
	delete(f.splits, splitID)
	for id, t := range f.templates {
		if t.SplitID == splitID {
			delete(f.templates, id)
		}
	}
	return nil
}

// addTemplate seeds a template owned by userID through a fresh split.
func (f *fakeStore) addTemplate(userID uuid.UUID, name string, exercises ...models.ExerciseDefinition) *models.TemplateDetail {
	f.mu.Lock()
	defer f.mu.Unlock()
	split := models.Split{ID: uuid.New(), UserID: userID, Name: name + " split", CreatedAt: f.tick()}
	f.splits[split.ID] = split
	t := &models.TemplateDetail{
		Template:  models.Template{ID: uuid.New(), SplitID: split.ID, Name: name, CreatedAt: f.tick()},
		Exercises: exercises,
	}
	f.templates[t.ID] = t
	return t
}

func (f *fakeStore) templateOwner(t *models.TemplateDetail) uuid.UUID {
	return f.splits[t.SplitID].UserID
}

func (f *fakeStore) ListTemplates(_ context.Context, userID uuid.UUID, splitID *uuid.UUID) ([]models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Template
	for _, t := range f.templates {
		if f.templateOwner(t) != userID {
			continue
		}
		if splitID != nil && t.SplitID != *splitID {
			continue
		}
		result = append(result, t.Template)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (f *fakeStore) CreateTemplate(_ context.Context, userID, splitID uuid.UUID, name string, position int) (*models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.splits[splitID]
	if !ok || s.UserID != userID {
		return nil, storage.ErrNotFound
	}
	t := &models.TemplateDetail{Template: models.Template{ID: uuid.New(), SplitID: splitID, Name: name, Position: position, CreatedAt: f.tick()}}
	f.templates[t.ID] = t
	return &t.Template, nil
}

func (f *fakeStore) GetTemplateDetail(_ context.Context, userID, templateID uuid.UUID) (*models.TemplateDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[templateID]
	if !ok || f.templateOwner(t) != userID {
		return nil, storage.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) UpdateTemplate(_ context.Context, userID, templateID uuid.UUID, name *string, position *int) (*models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[templateID]
	if !ok || f.templateOwner(t) != userID {
		return nil, storage.ErrNotFound
	}
	if name != nil {
		t.Name = *name
	}
	if position != nil {
		t.Position = *position
	}
	return &t.Template, nil
}

func (f *fakeStore) DeleteTemplate(_ context.Context, userID, templateID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[templateID]
	if !ok || f.templateOwner(t) != userID {
		return storage.ErrNotFound
	}
	delete(f.templates, templateID)
	return nil
}

func (f *fakeStore) AddTemplateExercise(_ context.Context, userID, templateID, exerciseID uuid.UUID, position int) (*models.TemplateDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[templateID]
	if !ok || f.templateOwner(t) != userID {
		return nil, storage.ErrNotFound
	}
	e, ok := f.exercises[exerciseID]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}
	for _, existing := range t.Exercises {
		if existing.ID == exerciseID {
			return nil, storage.ErrConflict
		}
	}
	t.Exercises = append(t.Exercises, e)
	return t, nil
}

func (f *fakeStore) RemoveTemplateExercise(_ context.Context, userID, templateID, exerciseID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[templateID]
	if !ok || f.templateOwner(t) != userID {
		return storage.ErrNotFound
	}
	for i, e := range t.Exercises {
		if e.ID == exerciseID {
			t.Exercises = append(t.Exercises[:i], t.Exercises[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ReorderTemplateExercises(_ context.Context, userID, templateID uuid.UUID, order []storage.ExercisePosition) (*models.TemplateDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[templateID]
	if !ok || f.templateOwner(t) != userID {
		return nil, storage.ErrNotFound
	}
	pos := make(map[uuid.UUID]int)
	for _, item := range order {
		pos[item.ExerciseDefinitionID] = item.Position
	}
	sort.SliceStable(t.Exercises, func(i, j int) bool {
		return pos[t.Exercises[i].ID] < pos[t.Exercises[j].ID]
	})
	return t, nil
}

func (f *fakeStore) StartDraft(_ context.Context, userID uuid.UUID, templateID *uuid.UUID) (*models.WorkoutDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.drafts[userID]; ok {
		return existing, nil
	}

	data := models.SessionData{}
	if templateID != nil {
		t, ok := f.templates[*templateID]
		if !ok || f.templateOwner(t) != userID {
			return nil, storage.ErrNotFound
		}
		for _, def := range t.Exercises {
			data.Exercises = append(data.Exercises, models.NewExerciseEntry(def))
		}
	}

	now := f.tick()
	d := &models.WorkoutDraft{
		ID:         uuid.New(),
		UserID:     userID,
		TemplateID: templateID,
		Data:       data,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	f.drafts[userID] = d
	return d, nil
}

func (f *fakeStore) GetDraft(_ context.Context, userID uuid.UUID) (*models.WorkoutDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.drafts[userID]; ok {
		return d, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ReplaceDraftData(_ context.Context, userID uuid.UUID, data models.SessionData) (*models.WorkoutDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	d.Data = data
	d.UpdatedAt = f.tick()
	return d, nil
}

func (f *fakeStore) AddDraftExercise(_ context.Context, userID, exerciseID uuid.UUID) (*models.WorkoutDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	def, ok := f.exercises[exerciseID]
	if !ok || def.UserID != userID {
		return nil, storage.ErrNotFound
	}
	if d.Data.ContainsExercise(def.ID) {
		return nil, storage.ErrConflict
	}
	d.Data.Exercises = append(d.Data.Exercises, models.NewExerciseEntry(def))
	d.UpdatedAt = f.tick()
	return d, nil
}

func (f *fakeStore) DiscardDraft(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.drafts[userID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.drafts, userID)
	return nil
}

func (f *fakeStore) FinishDraft(_ context.Context, userID uuid.UUID) (*models.CompletedSessionDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	pending, total := scoring.Collect(d.Data)
	detail := models.CompletedSessionDetail{
		CompletedSession: models.CompletedSession{
			ID:           uuid.New(),
			UserID:       userID,
			TemplateID:   d.TemplateID,
			StartedAt:    d.StartedAt,
			CompletedAt:  f.tick(),
			SessionScore: total,
		},
	}
	for _, p := range pending {
		detail.CompletedSets = append(detail.CompletedSets, models.CompletedSet{
			ID:                   uuid.New(),
			SessionID:            detail.ID,
			ExerciseDefinitionID: p.ExerciseDefinitionID,
			SetNumber:            p.SetNumber,
			Reps:                 p.Reps,
			Weight:               p.Weight,
			EpleyScore:           p.EpleyScore,
		})
	}

	f.sessions = append(f.sessions, detail.CompletedSession)
	f.sets[detail.ID] = detail.CompletedSets
	delete(f.drafts, userID)
	return &detail, nil
}

func (f *fakeStore) ListCompletedSessions(_ context.Context, userID uuid.UUID, templateID *uuid.UUID) ([]storage.SessionAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []storage.SessionAnalytics
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		if templateID != nil && (s.TemplateID == nil || *s.TemplateID != *templateID) {
			continue
		}
		sa := storage.SessionAnalytics{
			ID:           s.ID,
			TemplateID:   s.TemplateID,
			StartedAt:    s.StartedAt,
			CompletedAt:  s.CompletedAt,
			SessionScore: s.SessionScore,
		}
		// Live join: the name resolves only while the template still exists.
		if s.TemplateID != nil {
			if t, ok := f.templates[*s.TemplateID]; ok {
				name := t.Name
				sa.TemplateName = &name
			}
		}
		result = append(result, sa)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CompletedAt.After(result[j].CompletedAt) })
	return result, nil
}

func (f *fakeStore) ExerciseHistory(_ context.Context, userID, exerciseID uuid.UUID) ([]storage.ExerciseSessionHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[exerciseID]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}

	ordered := make([]models.CompletedSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		if s.UserID == userID {
			ordered = append(ordered, s)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].CompletedAt.Before(ordered[j].CompletedAt) })

	var history []storage.ExerciseSessionHistory
	for _, s := range ordered {
		var entry *storage.ExerciseSessionHistory
		for _, cs := range f.sets[s.ID] {
			if cs.ExerciseDefinitionID != exerciseID {
				continue
			}
			if entry == nil {
				history = append(history, storage.ExerciseSessionHistory{SessionID: s.ID, Date: s.CompletedAt})
				entry = &history[len(history)-1]
			}
			entry.TotalScore += cs.EpleyScore
			entry.Sets = append(entry.Sets, storage.SetAnalytics{
				SetNumber: cs.SetNumber, Reps: cs.Reps, Weight: cs.Weight, EpleyScore: cs.EpleyScore,
			})
		}
	}
	return history, nil
}

func (f *fakeStore) GetExerciseSummary(_ context.Context, userID, exerciseID uuid.UUID) (*storage.ExerciseSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[exerciseID]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}

	summary := storage.ExerciseSummary{ExerciseID: e.ID, ExerciseName: e.Name}
	sessionScores := make(map[uuid.UUID]float64)
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		for _, cs := range f.sets[s.ID] {
			if cs.ExerciseDefinitionID != exerciseID {
				continue
			}
			summary.TotalSets++
			summary.TotalVolume += cs.Weight * float64(cs.Reps)
			sessionScores[s.ID] += cs.EpleyScore
			if cs.EpleyScore > summary.BestSetEpleyScore {
				summary.BestSetEpleyScore = cs.EpleyScore
				summary.BestSetWeight = cs.Weight
				summary.BestSetReps = cs.Reps
			}
			if summary.LastPerformed == nil || s.CompletedAt.After(*summary.LastPerformed) {
				t := s.CompletedAt
				summary.LastPerformed = &t
			}
		}
	}
	summary.TotalSessions = len(sessionScores)
	if summary.TotalSessions > 0 {
		var sum float64
		for _, sc := range sessionScores {
			sum += sc
		}
		summary.AverageSessionScore = sum / float64(summary.TotalSessions)
	}
	return &summary, nil
}
