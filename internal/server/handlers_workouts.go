package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// userID pulls the authenticated user out of the request context. The auth
// middleware guarantees it on every protected route; a miss means a routing
// bug, not a client error.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
	}
	return id, ok
}

type startWorkoutRequest struct {
	TemplateID *uuid.UUID `json:"template_id"`
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	// An empty body means an ad-hoc workout with no template.
	var req startWorkoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	draft, err := s.db.StartDraft(r.Context(), userID, req.TemplateID)
	if err != nil {
		s.writeStoreError(w, err, "template not found", "")
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	draft, err := s.db.GetDraft(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, err, "no active workout draft", "")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

type replaceDraftRequest struct {
	SessionData models.SessionData `json:"session_data"`
}

func (s *Server) handleReplaceDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req replaceDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	draft, err := s.db.ReplaceDraftData(r.Context(), userID, req.SessionData)
	if err != nil {
		s.writeStoreError(w, err, "no active workout draft", "")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

type addExerciseRequest struct {
	ExerciseDefinitionID uuid.UUID `json:"exercise_definition_id"`
}

func (s *Server) handleAddDraftExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req addExerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	draft, err := s.db.AddDraftExercise(r.Context(), userID, req.ExerciseDefinitionID)
	if err != nil {
		s.writeStoreError(w, err, "no active workout draft or exercise not found", "exercise already in workout")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	session, err := s.db.FinishDraft(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, err, "no active workout draft", "")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	if err := s.db.DiscardDraft(r.Context(), userID); err != nil {
		s.writeStoreError(w, err, "no active workout draft", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
