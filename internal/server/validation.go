package server

import (
	"fmt"
	"mime"
	"strings"
	"time"

	"taskly/internal/models"
)

var deadlineLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func normalizeName(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", badRequestCode(fmt.Errorf("%s is required", field), ErrCodeMissingRequired)
	}
	return value, nil
}

func normalizeStatus(value string) (models.TaskStatus, error) {
	status, err := models.ParseTaskStatus(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidStatus)
	}
	return status, nil
}

// normalizePriority treats an empty value as none.
func normalizePriority(value string) (models.Priority, error) {
	if strings.TrimSpace(value) == "" {
		return models.PriorityNone, nil
	}
	priority, err := models.ParsePriority(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidPriority)
	}
	return priority, nil
}

// normalizeDate returns "" for an empty value and the canonical YYYY-MM-DD otherwise.
func normalizeDate(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	day, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return "", badRequestCode(fmt.Errorf("invalid %s: expected YYYY-MM-DD", field), ErrCodeInvalidDate)
	}
	return day.Format(models.DateLayout), nil
}

// normalizeDeadline parses RFC3339, or a local date-time in loc. A bare
// date means the last minute of that day. Seconds precision, UTC.
func normalizeDeadline(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return deadlinePtr(parsed), nil
	}
	for _, layout := range deadlineLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return deadlinePtr(parsed), nil
		}
	}
	if day, err := time.ParseInLocation(models.DateLayout, value, loc); err == nil {
		return deadlinePtr(day.Add(23*time.Hour + 59*time.Minute)), nil
	}
	return nil, badRequestCode(fmt.Errorf("invalid deadline: expected RFC3339, YYYY-MM-DDTHH:MM or YYYY-MM-DD"), ErrCodeInvalidDate)
}

func deadlinePtr(t time.Time) *time.Time {
	out := t.UTC().Truncate(time.Second)
	return &out
}

func validateMinutes(value *int, field string) error {
	if value != nil && *value < 0 {
		return badRequestCode(fmt.Errorf("%s must be >= 0", field), ErrCodeInvalidMinutes)
	}
	return nil
}

// normalizeRecurringType stores none as absent.
func normalizeRecurringType(value string) (string, error) {
	recurring, err := models.ParseRecurringType(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidRecurrence)
	}
	if recurring == models.RecurringNone {
		return "", nil
	}
	return string(recurring), nil
}

func normalizeLabelIDs(ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, badRequestCode(fmt.Errorf("invalid label id %d", id), ErrCodeInvalidLabel)
		}
		if _, ok := seen[id]; ok {
			return nil, badRequestCode(fmt.Errorf("duplicate label id %d", id), ErrCodeInvalidLabel)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func normalizeMediaType(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	parsed, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", badRequest(fmt.Errorf("invalid media type"))
	}
	return strings.ToLower(parsed), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
