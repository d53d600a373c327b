package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Tasks.
	mux.HandleFunc("GET /tasks", s.handleListTasks)
	mux.HandleFunc("POST /tasks", s.handleCreateTask)
	mux.HandleFunc("PUT /tasks", s.handleUpdateTask)
	mux.HandleFunc("DELETE /tasks", s.handleDeleteTask)
	mux.HandleFunc("GET /tasks/search", s.handleSearchTasks)
	mux.HandleFunc("GET /tasks/overdue", s.handleOverdueTasks)
	mux.HandleFunc("GET /tasks/deletions", s.handleTaskDeletions)
	mux.HandleFunc("GET /tasks/{id}", s.handleGetTask)

	// Lists.
	mux.HandleFunc("GET /lists", s.handleListLists)
	mux.HandleFunc("POST /lists", s.handleCreateList)
	mux.HandleFunc("PUT /lists", s.handleUpdateList)
	mux.HandleFunc("DELETE /lists", s.handleDeleteList)
	mux.HandleFunc("GET /lists/{id}", s.handleGetList)

	// Labels.
	mux.HandleFunc("GET /labels", s.handleListLabels)
	mux.HandleFunc("POST /labels", s.handleCreateLabel)
	mux.HandleFunc("PUT /labels", s.handleUpdateLabel)
	mux.HandleFunc("DELETE /labels", s.handleDeleteLabel)
	mux.HandleFunc("GET /labels/{id}", s.handleGetLabel)

	// Reminders.
	mux.HandleFunc("POST /tasks/{id}/reminders", s.handleCreateReminder)
	mux.HandleFunc("GET /reminders/due", s.handleDueReminders)
	mux.HandleFunc("DELETE /reminders/{id}", s.handleDeleteReminder)
	mux.HandleFunc("POST /reminders/{id}/sent", s.handleMarkReminderSent)

	// Attachments.
	mux.HandleFunc("POST /tasks/{id}/attachments", s.handleCreateTaskAttachment)
	mux.HandleFunc("GET /attachments/{id}/content", s.handleGetAttachmentContent)
	mux.HandleFunc("DELETE /attachments/{id}", s.handleDeleteAttachment)

	return mux
}
