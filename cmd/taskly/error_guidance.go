package main

import (
	"context"
	"errors"
	"net"

	"taskly/internal/api"
)

// Numeric error codes returned by the taskly server that carry a CLI hint.
const (
	errCodeRequestTooLarge   = 1002
	errCodeInvalidDate       = 1015
	errCodeInvalidView       = 1016
	errCodeTaskNotFound      = 2001
	errCodeListNotFound      = 2002
	errCodeLabelNotFound     = 2004
	errCodeLabelNameExists   = 2103
	errCodeDefaultListLocked = 2104
	errCodeResourceExhausted = 3003
)

var hintsByErrorCode = map[int]string{
	errCodeRequestTooLarge:   "hint: raise attachments.max_upload_bytes with: taskly config set attachments.max_upload_bytes <bytes>",
	errCodeInvalidDate:       "hint: dates are YYYY-MM-DD; deadlines also accept RFC3339 timestamps.",
	errCodeInvalidView:       "hint: views are today, next7days, upcoming and all.",
	errCodeTaskNotFound:      "hint: find task ids with: taskly ls",
	errCodeListNotFound:      "hint: find list ids with: taskly list ls",
	errCodeLabelNotFound:     "hint: find labels with: taskly label ls",
	errCodeLabelNameExists:   "hint: label names are unique; rename or reuse the existing label.",
	errCodeDefaultListLocked: "hint: the Inbox list (id 1) cannot be deleted.",
	errCodeResourceExhausted: "hint: the server is busy with searches or uploads; retry shortly.",
}

// formatCLIError renders err for stderr: the message first, then any hints.
func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}
	lines := []string{err.Error()}

	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		lines = append(lines, apiErrorHints(apiErr)...)
	case errors.Is(err, context.DeadlineExceeded):
		lines = append(lines, "hint: the request timed out; raise TASKLY_HTTP_TIMEOUT or check `taskly info`.")
	default:
		var netErr net.Error
		if errors.As(err, &netErr) {
			lines = append(lines,
				"hint: no taskly server answered at TASKLY_API_URL.",
				"hint: run one in the foreground with: taskly srv",
			)
		}
	}
	return uniqueLines(lines)
}

func apiErrorHints(apiErr *api.APIError) []string {
	var hints []string
	if hint, ok := hintsByErrorCode[apiErr.ErrorCode]; ok {
		hints = append(hints, hint)
	}
	switch {
	case apiErr.Code == "":
		hints = append(hints, "hint: TASKLY_API_URL does not point at a taskly server.")
	case apiErr.Status >= 500:
		hints = append(hints, "hint: the server failed internally; details are in its log (log_file).")
	}
	return hints
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}
