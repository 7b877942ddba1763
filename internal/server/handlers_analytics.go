package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/storage"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var templateID *uuid.UUID
	if v := r.URL.Query().Get("template_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid template_id")
			return
		}
		templateID = &id
	}

	sessions, err := s.db.ListCompletedSessions(r.Context(), userID, templateID)
	if err != nil {
		s.writeStoreError(w, err, "", "")
		return
	}
	if sessions == nil {
		sessions = []storage.SessionAnalytics{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	exerciseID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise ID")
		return
	}

	history, err := s.db.ExerciseHistory(r.Context(), userID, exerciseID)
	if err != nil {
		s.writeStoreError(w, err, "exercise not found", "")
		return
	}
	if history == nil {
		history = []storage.ExerciseSessionHistory{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleExerciseSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	exerciseID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise ID")
		return
	}

	summary, err := s.db.GetExerciseSummary(r.Context(), userID, exerciseID)
	if err != nil {
		s.writeStoreError(w, err, "exercise not found", "")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
