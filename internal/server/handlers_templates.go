package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

type createTemplateRequest struct {
	SplitID  uuid.UUID `json:"split_id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`
}

type updateTemplateRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

type templateAddExerciseRequest struct {
	ExerciseDefinitionID uuid.UUID `json:"exercise_definition_id"`
	Position             int       `json:"position"`
}

type reorderRequest struct {
	ExerciseOrders []storage.ExercisePosition `json:"exercise_orders"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var splitID *uuid.UUID
	if v := r.URL.Query().Get("split_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid split_id")
			return
		}
		splitID = &id
	}

	templates, err := s.db.ListTemplates(r.Context(), userID, splitID)
	if err != nil {
		s.writeStoreError(w, err, "", "")
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	template, err := s.db.CreateTemplate(r.Context(), userID, req.SplitID, req.Name, req.Position)
	if err != nil {
		s.writeStoreError(w, err, "split not found", "")
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	templateID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	template, err := s.db.GetTemplateDetail(r.Context(), userID, templateID)
	if err != nil {
		s.writeStoreError(w, err, "template not found", "")
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	templateID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	var req updateTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	template, err := s.db.UpdateTemplate(r.Context(), userID, templateID, req.Name, req.Position)
	if err != nil {
		s.writeStoreError(w, err, "template not found", "")
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	templateID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	if err := s.db.DeleteTemplate(r.Context(), userID, templateID); err != nil {
		s.writeStoreError(w, err, "template not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddTemplateExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	templateID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	var req templateAddExerciseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	template, err := s.db.AddTemplateExercise(r.Context(), userID, templateID, req.ExerciseDefinitionID, req.Position)
	if err != nil {
		s.writeStoreError(w, err, "template or exercise not found", "exercise already in template")
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

func (s *Server) handleRemoveTemplateExercise(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	templateID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}
	exerciseID, err := urlID(r, "exerciseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise ID")
		return
	}

	if err := s.db.RemoveTemplateExercise(r.Context(), userID, templateID, exerciseID); err != nil {
		s.writeStoreError(w, err, "exercise not in template", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderTemplateExercises(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	templateID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	template, err := s.db.ReorderTemplateExercises(r.Context(), userID, templateID, req.ExerciseOrders)
	if err != nil {
		s.writeStoreError(w, err, "template not found", "")
		return
	}
	writeJSON(w, http.StatusOK, template)
}
