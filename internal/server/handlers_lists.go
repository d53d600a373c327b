package server

import (
	"net/http"
	"strings"

	"taskly/internal/api"
)

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.All(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	list, err := s.lists.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req api.ListCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	list, err := s.lists.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, list)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req api.ListUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	list, err := s.lists.Update(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	id, ok := s.queryIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.lists.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse())
}

// handleListLabels returns all labels, or one label when ?name= is given.
func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		label, err := s.labels.GetByName(r.Context(), name)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, label)
		return
	}

	labels, err := s.labels.All(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, labels)
}

func (s *Server) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	label, err := s.labels.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, label)
}

func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	var req api.LabelCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	label, err := s.labels.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, label)
}

func (s *Server) handleUpdateLabel(w http.ResponseWriter, r *http.Request) {
	var req api.LabelUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	label, err := s.labels.Update(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, label)
}

func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.queryIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.labels.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse())
}
