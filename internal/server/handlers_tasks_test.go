package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskly/internal/api"
	"taskly/internal/models"
)

func TestCreateTask_UnknownJSONFieldsAreIgnored(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/tasks", map[string]any{
		"name":              "Forward compatible payload",
		"priority":          "medium",
		"unknown_new_field": map[string]any{"nested": true},
	})
	expectStatus(t, w, http.StatusCreated)
	created := decodeBody[api.TaskResponse](t, w)
	if created.ID == 0 || created.Name != "Forward compatible payload" {
		t.Fatalf("unexpected created task %+v", created.Task)
	}

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), nil)
	expectStatus(t, w, http.StatusOK)
	shown := decodeBody[api.TaskResponse](t, w)
	if shown.ID != created.ID || shown.Priority != models.PriorityMedium {
		t.Fatalf("unexpected shown task %+v", shown.Task)
	}
	if shown.Labels == nil || shown.Subtasks == nil || shown.Reminders == nil || shown.Attachments == nil {
		t.Fatal("expected assembled collections to be empty arrays, not null")
	}
}

func TestGetTaskWireKeys(t *testing.T) {
	srv, _ := newTestServer(t)

	created := decodeBody[api.TaskResponse](t, doJSON(t, srv, http.MethodPost, "/tasks", api.TaskCreateRequest{Name: "wire"}))
	w := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), nil)
	expectStatus(t, w, http.StatusOK)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"list", "labels", "subtasks", "reminders", "attachments", "activity_logs"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("expected key %q in %s", key, w.Body.String())
		}
	}
	if _, ok := raw["logs"]; ok {
		t.Fatalf("unexpected key logs in %s", w.Body.String())
	}

	var entries []models.ActivityLog
	if err := json.Unmarshal(raw["activity_logs"], &entries); err != nil || len(entries) != 1 || entries[0].Action != models.ActionCreated {
		t.Fatalf("expected the created entry under activity_logs, got %s (%v)", raw["activity_logs"], err)
	}
}

func TestCreateTask_TrailingJSONRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader([]byte(`{"name":"first"}{"name":"second"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidJSON)

	w = doJSON(t, srv, http.MethodGet, "/tasks?view=all", nil)
	expectStatus(t, w, http.StatusOK)
	if tasks := decodeBody[[]api.TaskResponse](t, w); len(tasks) != 0 {
		t.Fatalf("expected no tasks to be created, got %d", len(tasks))
	}
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"name":`, ErrCodeInvalidJSON},
		{"missing name", `{"description":"x"}`, ErrCodeMissingRequired},
		{"bad date", `{"name":"x","date":"05/10/2026"}`, ErrCodeInvalidDate},
		{"unknown list", `{"name":"x","list_id":42}`, ErrCodeInvalidList},
		{"unknown label", `{"name":"x","label_ids":[42]}`, ErrCodeInvalidLabel},
		{"wrong type", `{"name":"x","estimate_minutes":"ten"}`, ErrCodeInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			srv.routes().ServeHTTP(w, req)
			expectErrorCode(t, w, http.StatusBadRequest, tt.code)
		})
	}
}

func TestUpdateTaskDistinguishesNullFromAbsent(t *testing.T) {
	srv, _ := newTestServer(t)
	created := decodeBody[api.TaskResponse](t, doJSON(t, srv, http.MethodPost, "/tasks", api.TaskCreateRequest{
		Name:        "pay rent",
		Description: "bank transfer",
		Date:        "2026-05-12",
	}))

	body := fmt.Sprintf(`{"id":%d,"date":null}`, created.ID)
	req := httptest.NewRequest(http.MethodPut, "/tasks", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	expectStatus(t, w, http.StatusOK)

	updated := decodeBody[api.TaskResponse](t, w)
	if updated.Date != "" {
		t.Fatalf("expected date cleared, got %q", updated.Date)
	}
	if updated.Description != "bank transfer" {
		t.Fatalf("expected absent description untouched, got %q", updated.Description)
	}
}

func TestUpdateTaskErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPut, "/tasks", map[string]any{"id": 77, "name": "ghost"})
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeTaskNotFound)

	w = doJSON(t, srv, http.MethodPut, "/tasks", map[string]any{"name": "no id"})
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidID)

	created := decodeBody[api.TaskResponse](t, doJSON(t, srv, http.MethodPost, "/tasks", api.TaskCreateRequest{Name: "x"}))
	w = doJSON(t, srv, http.MethodPut, "/tasks", map[string]any{"id": created.ID, "status": "archived"})
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidStatus)
}

func TestDeleteTaskHandler(t *testing.T) {
	srv, _ := newTestServer(t)
	created := decodeBody[api.TaskResponse](t, doJSON(t, srv, http.MethodPost, "/tasks", api.TaskCreateRequest{Name: "temp"}))

	w := doJSON(t, srv, http.MethodDelete, "/tasks", nil)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeMissingRequired)

	w = doJSON(t, srv, http.MethodDelete, "/tasks?id=abc", nil)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidID)

	w = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/tasks?id=%d", created.ID), nil)
	expectStatus(t, w, http.StatusOK)
	if resp := decodeBody[api.SuccessResponse](t, w); !resp.Success {
		t.Fatal("expected success response")
	}

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), nil)
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeTaskNotFound)

	w = doJSON(t, srv, http.MethodGet, "/tasks/deletions?limit=5", nil)
	expectStatus(t, w, http.StatusOK)
	deletions := decodeBody[[]models.TaskDeletion](t, w)
	if len(deletions) != 1 || deletions[0].TaskID != created.ID {
		t.Fatalf("expected deletion record, got %+v", deletions)
	}
}

func TestSearchAndOverdueHandlers(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/tasks", api.TaskCreateRequest{Name: "Renew passport", Date: "2026-05-01"})
	doJSON(t, srv, http.MethodPost, "/tasks", api.TaskCreateRequest{Name: "Book flights", Description: "after the PASSPORT arrives"})

	w := doJSON(t, srv, http.MethodGet, "/tasks/search?q=passport", nil)
	expectStatus(t, w, http.StatusOK)
	if found := decodeBody[[]api.TaskResponse](t, w); len(found) != 2 {
		t.Fatalf("expected two matches, got %d", len(found))
	}

	w = doJSON(t, srv, http.MethodGet, "/tasks/search", nil)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidSearchQuery)

	w = doJSON(t, srv, http.MethodGet, "/tasks/overdue", nil)
	expectStatus(t, w, http.StatusOK)
	overdue := decodeBody[[]api.TaskResponse](t, w)
	if len(overdue) != 1 || overdue[0].Name != "Renew passport" {
		t.Fatalf("expected passport task overdue, got %+v", overdue)
	}
}

func TestReminderHandlers(t *testing.T) {
	srv, _ := newTestServer(t)
	task := decodeBody[api.TaskResponse](t, doJSON(t, srv, http.MethodPost, "/tasks", api.TaskCreateRequest{Name: "dentist"}))

	w := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/tasks/%d/reminders", task.ID), api.ReminderCreateRequest{
		RemindAt: testNow.Add(-10 * time.Minute),
		Message:  "leave now",
	})
	expectStatus(t, w, http.StatusCreated)
	reminder := decodeBody[models.Reminder](t, w)

	w = doJSON(t, srv, http.MethodGet, "/reminders/due", nil)
	expectStatus(t, w, http.StatusOK)
	if due := decodeBody[[]models.Reminder](t, w); len(due) != 1 || due[0].ID != reminder.ID {
		t.Fatalf("expected reminder due, got %+v", due)
	}

	w = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/reminders/%d/sent", reminder.ID), nil)
	expectStatus(t, w, http.StatusOK)
	if sent := decodeBody[models.Reminder](t, w); !sent.Sent {
		t.Fatal("expected reminder marked sent")
	}

	w = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/reminders/%d", reminder.ID), nil)
	expectStatus(t, w, http.StatusOK)

	w = doJSON(t, srv, http.MethodPost, "/reminders/999/sent", nil)
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeReminderNotFound)
}
