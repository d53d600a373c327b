package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPTimeoutFromEnv(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "")
		if got := httpTimeoutFromEnv(); got != defaultHTTPTimeout {
			t.Fatalf("expected default timeout %v, got %v", defaultHTTPTimeout, got)
		}
	})

	t.Run("duration format", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "45s")
		if got := httpTimeoutFromEnv(); got != 45*time.Second {
			t.Fatalf("expected 45s timeout, got %v", got)
		}
	})

	t.Run("integer seconds", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "25")
		if got := httpTimeoutFromEnv(); got != 25*time.Second {
			t.Fatalf("expected 25s timeout, got %v", got)
		}
	})

	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "invalid")
		if got := httpTimeoutFromEnv(); got != defaultHTTPTimeout {
			t.Fatalf("expected default timeout %v, got %v", defaultHTTPTimeout, got)
		}
	})
}

func TestDecodeErrorCarriesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"task not found","code":"not_found","error_code":2001}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetTask(context.Background(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.ErrorCode != 2001 || apiErr.Message != "task not found" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound to match")
	}
}

func TestDeleteTaskSendsIDQuery(t *testing.T) {
	var gotMethod, gotPath, gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotID = r.Method, r.URL.Path, r.URL.Query().Get("id")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL+"/").DeleteTask(context.Background(), 12); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/tasks" || gotID != "12" {
		t.Fatalf("unexpected request %s %s id=%s", gotMethod, gotPath, gotID)
	}
}

func TestUploadAttachmentSendsMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 3, "filename": header.Filename, "file_size": len(data)})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).UploadAttachment(context.Background(), 1, "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got.ID != 3 || got.Filename != "notes.txt" || got.FileSize != 5 {
		t.Fatalf("unexpected attachment %+v", got)
	}
}
