package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlog/internal/auth"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Store
	tokens *auth.Tokens
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, tokens *auth.Tokens, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		tokens: tokens,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Post("/auth/register", s.handleRegister)
	s.router.Post("/auth/login", s.handleLogin)

	// Everything below requires a bearer token.
	s.router.Group(func(r chi.Router) {
		r.Use(BearerAuth(s.tokens))

		r.Get("/auth/me", s.handleMe)

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", s.handleListExercises)
			r.Post("/", s.handleCreateExercise)
			r.Get("/{id}", s.handleGetExercise)
			r.Put("/{id}", s.handleRenameExercise)
			r.Delete("/{id}", s.handleDeleteExercise)
		})

		r.Route("/splits", func(r chi.Router) {
			r.Get("/", s.handleListSplits)
			r.Post("/", s.handleCreateSplit)
			r.Get("/{id}", s.handleGetSplit)
			r.Put("/{id}", s.handleUpdateSplit)
			r.Delete("/{id}", s.handleDeleteSplit)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleCreateTemplate)
			r.Get("/{id}", s.handleGetTemplate)
			r.Put("/{id}", s.handleUpdateTemplate)
			r.Delete("/{id}", s.handleDeleteTemplate)
			r.Post("/{id}/exercises", s.handleAddTemplateExercise)
			r.Delete("/{id}/exercises/{exerciseID}", s.handleRemoveTemplateExercise)
			r.Put("/{id}/exercises/reorder", s.handleReorderTemplateExercises)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Post("/start", s.handleStartWorkout)
			r.Get("/draft", s.handleGetDraft)
			r.Put("/draft", s.handleReplaceDraft)
			r.Post("/draft/add-exercise", s.handleAddDraftExercise)
			r.Post("/finish", s.handleFinishWorkout)
			r.Delete("/draft", s.handleDiscardDraft)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/sessions", s.handleListSessions)
			r.Get("/exercise/{id}/history", s.handleExerciseHistory)
			r.Get("/exercise/{id}/summary", s.handleExerciseSummary)
		})
	})
}
