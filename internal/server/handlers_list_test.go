package server

import (
	"fmt"
	"net/http"
	"testing"

	"taskly/internal/api"
	"taskly/internal/models"
)

func TestHandleListTasksOffsetWithoutLimit(t *testing.T) {
	srv, _ := newTestServer(t)
	for i := range 3 {
		seedListTask(t, srv, fmt.Sprintf("task %d", i), api.TaskCreateRequest{})
	}

	w := doJSON(t, srv, http.MethodGet, "/tasks?offset=1", nil)
	expectStatus(t, w, http.StatusOK)
	if tasks := decodeBody[[]api.TaskResponse](t, w); len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after offset, got %d", len(tasks))
	}
}

func TestHandleListTasksInvalidQueryParams(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		query string
		code  int
	}{
		{"limit=-1", ErrCodeInvalidQuery},
		{"offset=abc", ErrCodeInvalidQuery},
		{"list_id=zero", ErrCodeInvalidID},
		{"label_ids=1,x", ErrCodeInvalidLabel},
		{"priority=urgent", ErrCodeInvalidPriority},
		{"status=done", ErrCodeInvalidStatus},
		{"parent_id=-4", ErrCodeInvalidParentID},
		{"date=2026-13-01", ErrCodeInvalidDate},
		{"start_date=2026-05-10&end_date=2026-05-01", ErrCodeInvalidTimeFilter},
		{"showCompleted=maybe", ErrCodeInvalidQuery},
		{"view=someday", ErrCodeInvalidView},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodGet, "/tasks?"+tt.query, nil)
			expectErrorCode(t, w, http.StatusBadRequest, tt.code)
		})
	}
}

func TestHandleListTasksFiltersAndViews(t *testing.T) {
	srv, st := newTestServer(t)
	errands := mustCreateLabel(t, st, "errands")
	work := decodeBody[api.ListResponse](t, doJSON(t, srv, http.MethodPost, "/lists", api.ListCreateRequest{Name: "Work"}))

	seedListTask(t, srv, "standup", api.TaskCreateRequest{ListID: &work.ID, Date: "2026-05-10", Priority: "high"})
	seedListTask(t, srv, "post office", api.TaskCreateRequest{Date: "2026-05-14", LabelIDs: []int64{errands.ID}})
	seedListTask(t, srv, "someday", api.TaskCreateRequest{})
	done := seedListTask(t, srv, "finished", api.TaskCreateRequest{Date: "2026-05-10"})
	doJSON(t, srv, http.MethodPut, "/tasks", map[string]any{"id": done.ID, "status": "completed"})

	tests := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"showCompleted=false", 3},
		{"view=all", 4},
		{"view=all&showCompleted=false", 3},
		{"view=today", 2},
		{"view=today&showCompleted=false", 1},
		{"view=next7days", 3},
		{"view=next7days&showCompleted=false", 2},
		{"view=upcoming&list_id=" + fmt.Sprint(work.ID), 1},
		{"label_ids=" + fmt.Sprint(errands.ID), 1},
		{"priority=high", 1},
		{"status=completed", 1},
		{"status=completed&showCompleted=false", 0},
		{"q=OFFICE", 1},
		{"parent_id=none", 4},
		{"start_date=2026-05-11&end_date=2026-05-31", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodGet, "/tasks?"+tt.query, nil)
			expectStatus(t, w, http.StatusOK)
			if tasks := decodeBody[[]api.TaskResponse](t, w); len(tasks) != tt.want {
				t.Fatalf("expected %d tasks, got %d", tt.want, len(tasks))
			}
		})
	}
}

func TestListHandlers(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/lists", nil)
	expectStatus(t, w, http.StatusOK)
	lists := decodeBody[[]api.ListResponse](t, w)
	if len(lists) != 1 || lists[0].ID != models.DefaultListID || lists[0].Name != models.DefaultListName {
		t.Fatalf("expected seeded Inbox, got %+v", lists)
	}

	w = doJSON(t, srv, http.MethodPost, "/lists", api.ListCreateRequest{Name: "  Home "})
	expectStatus(t, w, http.StatusCreated)
	home := decodeBody[api.ListResponse](t, w)
	if home.Name != "Home" || home.Color != models.DefaultListColor || home.Emoji != models.DefaultListEmoji {
		t.Fatalf("expected defaults applied, got %+v", home)
	}

	seedListTask(t, srv, "vacuum", api.TaskCreateRequest{ListID: &home.ID})
	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/lists/%d", home.ID), nil)
	expectStatus(t, w, http.StatusOK)
	if got := decodeBody[api.ListResponse](t, w); got.TaskCount != 1 {
		t.Fatalf("expected task count 1, got %d", got.TaskCount)
	}

	w = doJSON(t, srv, http.MethodPut, "/lists", map[string]any{"id": home.ID, "emoji": "🏠"})
	expectStatus(t, w, http.StatusOK)
	if got := decodeBody[api.ListResponse](t, w); got.Emoji != "🏠" || got.Name != "Home" {
		t.Fatalf("expected emoji-only update, got %+v", got)
	}

	w = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/lists?id=%d", models.DefaultListID), nil)
	expectErrorCode(t, w, http.StatusConflict, ErrCodeDefaultListLocked)

	w = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/lists?id=%d", home.ID), nil)
	expectStatus(t, w, http.StatusOK)

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/lists/%d", models.DefaultListID), nil)
	if got := decodeBody[api.ListResponse](t, w); got.TaskCount != 1 {
		t.Fatalf("expected task moved to the default list, got count %d", got.TaskCount)
	}

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/lists/%d", home.ID), nil)
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeListNotFound)

	w = doJSON(t, srv, http.MethodPost, "/lists", api.ListCreateRequest{})
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeMissingRequired)
}

func TestLabelHandlers(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/labels", api.LabelCreateRequest{Name: "urgent", Color: "#ff0000"})
	expectStatus(t, w, http.StatusCreated)
	urgent := decodeBody[api.LabelResponse](t, w)
	if urgent.Icon != models.DefaultLabelIcon || urgent.Color != "#ff0000" {
		t.Fatalf("unexpected label %+v", urgent)
	}

	w = doJSON(t, srv, http.MethodPost, "/labels", api.LabelCreateRequest{Name: "urgent"})
	expectErrorCode(t, w, http.StatusConflict, ErrCodeLabelNameExists)

	w = doJSON(t, srv, http.MethodPost, "/labels", api.LabelCreateRequest{Name: "later"})
	later := decodeBody[api.LabelResponse](t, w)
	w = doJSON(t, srv, http.MethodPut, "/labels", map[string]any{"id": later.ID, "name": "urgent"})
	expectErrorCode(t, w, http.StatusConflict, ErrCodeLabelNameExists)

	seedListTask(t, srv, "fix leak", api.TaskCreateRequest{LabelIDs: []int64{urgent.ID}})

	w = doJSON(t, srv, http.MethodGet, "/labels?name=urgent", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decodeBody[api.LabelResponse](t, w); got.ID != urgent.ID || got.TaskCount != 1 {
		t.Fatalf("expected urgent with one task, got %+v", got)
	}

	w = doJSON(t, srv, http.MethodGet, "/labels?name=missing", nil)
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeLabelNotFound)

	w = doJSON(t, srv, http.MethodGet, "/labels", nil)
	expectStatus(t, w, http.StatusOK)
	if all := decodeBody[[]api.LabelResponse](t, w); len(all) != 2 || all[0].Name != "later" {
		t.Fatalf("expected labels ordered by name, got %+v", all)
	}

	w = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/labels?id=%d", urgent.ID), nil)
	expectStatus(t, w, http.StatusOK)

	w = doJSON(t, srv, http.MethodGet, "/tasks", nil)
	if tasks := decodeBody[[]api.TaskResponse](t, w); len(tasks) != 1 || len(tasks[0].Labels) != 0 {
		t.Fatalf("expected label association removed, got %+v", tasks)
	}

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/labels/%d", urgent.ID), nil)
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeLabelNotFound)
}

func seedListTask(t *testing.T, srv *Server, name string, req api.TaskCreateRequest) api.TaskResponse {
	t.Helper()
	req.Name = name
	w := doJSON(t, srv, http.MethodPost, "/tasks", req)
	expectStatus(t, w, http.StatusCreated)
	return decodeBody[api.TaskResponse](t, w)
}
