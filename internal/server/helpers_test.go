package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"taskly/internal/api"
	"taskly/internal/blobstore"
	"taskly/internal/models"
	"taskly/internal/store"
)

// testNow is 2026-05-10 15:00 UTC, a Sunday.
var testNow = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t testing.TB) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "taskly.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestBlobs(t testing.TB, maxBytes int64) *blobstore.Disk {
	t.Helper()
	blobs, err := blobstore.NewDisk(filepath.Join(t.TempDir(), "blobs"), maxBytes)
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}
	return blobs
}

func newTestServer(t testing.TB) (*Server, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	srv := New("127.0.0.1:0", st, newTestBlobs(t, 1<<20), discardLogger(), Options{
		Location:       time.UTC,
		Now:            fixedClock,
		MaxUploadBytes: 1 << 20,
	})
	return srv, st
}

func newTaskServiceForTest(t testing.TB) (*TaskService, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	return NewTaskService(st, newTestBlobs(t, 1<<20), discardLogger(), time.UTC, fixedClock), st
}

func doJSON(t testing.TB, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t testing.TB, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
}

func expectErrorCode(t testing.TB, w *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	expectStatus(t, w, status)
	resp := decodeBody[api.ErrorResponse](t, w)
	if resp.ErrorCode != code {
		t.Fatalf("expected error_code %d, got %d (%s)", code, resp.ErrorCode, resp.Error)
	}
}

func mustCreateTask(t testing.TB, svc *TaskService, req api.TaskCreateRequest) api.TaskResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create task %q: %v", req.Name, err)
	}
	return resp
}

func mustCreateLabel(t testing.TB, st *store.Store, name string) models.Label {
	t.Helper()
	label := &models.Label{Name: name, Color: models.DefaultLabelColor, Icon: models.DefaultLabelIcon}
	if err := st.CreateLabel(context.Background(), label); err != nil {
		t.Fatalf("create label %q: %v", name, err)
	}
	return *label
}

func apiErrorCode(err error) int {
	var apiErr apiError
	if asAPIError(err, &apiErr) {
		return apiErr.errCode
	}
	return 0
}

func asAPIError(err error, target *apiError) bool {
	return err != nil && errors.As(err, target)
}

func ptr[T any](v T) *T { return &v }
