package main

import (
	"context"
	"fmt"
	"net"
	"slices"
	"testing"

	"taskly/internal/api"
)

func TestFormatCLIErrorHints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "connection refused",
			err:  &net.DNSError{Err: "dial tcp: connection refused", Name: "127.0.0.1", IsTemporary: true},
			want: []string{
				"hint: no taskly server answered at TASKLY_API_URL.",
				"hint: run one in the foreground with: taskly srv",
			},
		},
		{
			name: "not a taskly server",
			err:  &api.APIError{Status: 404, Message: "api error: 404 Not Found"},
			want: []string{"hint: TASKLY_API_URL does not point at a taskly server."},
		},
		{
			name: "inbox delete",
			err:  &api.APIError{Status: 409, Code: "conflict", ErrorCode: errCodeDefaultListLocked, Message: "default list cannot be deleted"},
			want: []string{"hint: the Inbox list (id 1) cannot be deleted."},
		},
		{
			name: "missing task",
			err:  fmt.Errorf("show: %w", &api.APIError{Status: 404, Code: "not_found", ErrorCode: errCodeTaskNotFound, Message: "task 9 not found"}),
			want: []string{"hint: find task ids with: taskly ls"},
		},
		{
			name: "duplicate label",
			err:  &api.APIError{Status: 409, Code: "conflict", ErrorCode: errCodeLabelNameExists, Message: "label exists"},
			want: []string{"hint: label names are unique; rename or reuse the existing label."},
		},
		{
			name: "busy",
			err:  fmt.Errorf("search: %w", &api.APIError{Status: 429, Code: "resource_exhausted", ErrorCode: errCodeResourceExhausted, Message: "too many requests"}),
			want: []string{"hint: the server is busy with searches or uploads; retry shortly."},
		},
		{
			name: "internal",
			err:  &api.APIError{Status: 500, Code: "internal", ErrorCode: 4001, Message: "internal error"},
			want: []string{"hint: the server failed internally; details are in its log (log_file)."},
		},
		{
			name: "timeout",
			err:  fmt.Errorf("get task: %w", context.DeadlineExceeded),
			want: []string{"hint: the request timed out; raise TASKLY_HTTP_TIMEOUT or check `taskly info`."},
		},
		{
			name: "plain error",
			err:  fmt.Errorf("parse id: bad"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := formatCLIError(tt.err)
			if len(lines) == 0 || lines[0] != tt.err.Error() {
				t.Fatalf("expected the error message first, got %v", lines)
			}
			if got := lines[1:]; !slices.Equal(got, tt.want) {
				t.Fatalf("expected hints %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatCLIErrorNil(t *testing.T) {
	if lines := formatCLIError(nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestUniqueLines(t *testing.T) {
	got := uniqueLines([]string{"a", "", "b", "a"})
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("unexpected lines %v", got)
	}
}
