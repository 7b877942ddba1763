package server

import (
	"net/http"
	"strings"

	"github.com/claude/liftlog/internal/models"
)

type createSplitRequest struct {
	Name string `json:"name"`
}

type updateSplitRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

func (s *Server) handleListSplits(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	splits, err := s.db.ListSplits(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, err, "", "")
		return
	}
	if splits == nil {
		splits = []models.Split{}
	}
	writeJSON(w, http.StatusOK, splits)
}

func (s *Server) handleCreateSplit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req createSplitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	split, err := s.db.CreateSplit(r.Context(), userID, req.Name)
	if err != nil {
		s.writeStoreError(w, err, "", "")
		return
	}
	writeJSON(w, http.StatusCreated, split)
}

func (s *Server) handleGetSplit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	splitID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid split ID")
		return
	}

	split, err := s.db.GetSplitDetail(r.Context(), userID, splitID)
	if err != nil {
		s.writeStoreError(w, err, "split not found", "")
		return
	}
	writeJSON(w, http.StatusOK, split)
}

func (s *Server) handleUpdateSplit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	splitID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid split ID")
		return
	}

	var req updateSplitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	split, err := s.db.UpdateSplit(r.Context(), userID, splitID, req.Name, req.IsActive)
	if err != nil {
		s.writeStoreError(w, err, "split not found", "")
		return
	}
	writeJSON(w, http.StatusOK, split)
}

func (s *Server) handleDeleteSplit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	splitID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid split ID")
		return
	}

	if err := s.db.DeleteSplit(r.Context(), userID, splitID); err != nil {
		s.writeStoreError(w, err, "split not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
