package server

import (
	"net/http"

	"taskly/internal/api"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req api.TaskCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.service.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req api.TaskUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.service.Update(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.queryIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.service.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse())
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	resp, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	showCompleted, err := queryBool(r, "showCompleted", true)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	responses, err := s.service.ByView(r.Context(), r.URL.Query().Get("view"), showCompleted, filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	s.withLimiter(w, r, s.searchLimiter, "search", func() {
		responses, err := s.service.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, responses)
	})
}

func (s *Server) handleOverdueTasks(w http.ResponseWriter, r *http.Request) {
	responses, err := s.service.Overdue(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleTaskDeletions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryIntDefault(r, "limit", 50)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	deletions, err := s.service.Deletions(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deletions)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	taskID, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	var req api.ReminderCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	reminder, err := s.service.AddReminder(r.Context(), taskID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, reminder)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteReminder(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse())
}

func (s *Server) handleMarkReminderSent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	reminder, err := s.service.MarkReminderSent(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleDueReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.service.DueReminders(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reminders)
}
