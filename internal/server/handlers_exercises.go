package server

import (
	"net/http"
	"strings"

	"github.com/claude/liftlog/internal/models"
)

type exerciseRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	exercises, err := s.db.ListExercises(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, err, "", "")
		return
	}
	if exercises == nil {
		exercises = []models.ExerciseDefinition{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req exerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	exercise, err := s.db.CreateExercise(r.Context(), userID, req.Name)
	if err != nil {
		s.writeStoreError(w, err, "", "exercise with this name already exists")
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	exerciseID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise ID")
		return
	}

	exercise, err := s.db.GetExercise(r.Context(), userID, exerciseID)
	if err != nil {
		s.writeStoreError(w, err, "exercise not found", "")
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (s *Server) handleRenameExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	exerciseID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise ID")
		return
	}

	var req exerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	exercise, err := s.db.RenameExercise(r.Context(), userID, exerciseID, req.Name)
	if err != nil {
		s.writeStoreError(w, err, "exercise not found", "exercise with this name already exists")
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	exerciseID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise ID")
		return
	}

	if err := s.db.DeleteExercise(r.Context(), userID, exerciseID); err != nil {
		s.writeStoreError(w, err, "exercise not found", "exercise has recorded history and cannot be deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
