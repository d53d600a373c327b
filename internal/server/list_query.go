package server

import (
	"fmt"
	"net/http"
	"strings"

	"taskly/internal/store"
)

// parseListFilter reads the task filter query parameters of GET /tasks.
func parseListFilter(r *http.Request) (store.ListFilter, error) {
	query := r.URL.Query()

	limit, err := queryInt(r, "limit")
	if err != nil {
		return store.ListFilter{}, err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return store.ListFilter{}, err
	}

	filter := store.ListFilter{
		Search: strings.TrimSpace(query.Get("q")),
		Limit:  limit,
		Offset: offset,
	}

	if raw := strings.TrimSpace(query.Get("list_id")); raw != "" {
		id, err := parseID(raw, "list_id")
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.ListID = &id
	}

	for _, raw := range splitCSV(query.Get("label_ids")) {
		id, err := parseIDCode(raw, "label_ids", ErrCodeInvalidLabel)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.LabelIDs = append(filter.LabelIDs, id)
	}

	if raw := strings.TrimSpace(query.Get("priority")); raw != "" {
		priority, err := normalizePriority(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.Priority = string(priority)
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := normalizeStatus(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.Status = string(status)
	}

	switch raw := strings.TrimSpace(query.Get("parent_id")); strings.ToLower(raw) {
	case "":
	case "none":
		filter.NoParent = true
	default:
		id, err := parseIDCode(raw, "parent_id", ErrCodeInvalidParentID)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.ParentID = &id
	}

	if filter.Date, err = normalizeDate(query.Get("date"), "date"); err != nil {
		return store.ListFilter{}, err
	}
	if filter.StartDate, err = normalizeDate(query.Get("start_date"), "start_date"); err != nil {
		return store.ListFilter{}, err
	}
	if filter.EndDate, err = normalizeDate(query.Get("end_date"), "end_date"); err != nil {
		return store.ListFilter{}, err
	}
	if filter.StartDate != "" && filter.EndDate != "" && filter.StartDate > filter.EndDate {
		return store.ListFilter{}, badRequestCode(fmt.Errorf("start_date cannot be after end_date"), ErrCodeInvalidTimeFilter)
	}

	return filter, nil
}
