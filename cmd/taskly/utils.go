package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"taskly/internal/api"
)

func intToString(value int) string {
	return strconv.Itoa(value)
}

func setIfNotEmpty(values url.Values, key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	values.Set(key, value)
}

func splitCommaList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parseIDArgs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseIDArg(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// labelResolver maps label references to ids. A reference is either a
// numeric id or a label name.
type labelResolver interface {
	GetLabelByName(ctx context.Context, name string) (api.LabelResponse, error)
}

func resolveLabelIDs(ctx context.Context, client labelResolver, refs []string) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		if id, err := parseIDArg(ref); err == nil {
			ids = append(ids, id)
			continue
		}
		label, err := client.GetLabelByName(ctx, ref)
		if err != nil {
			if api.IsNotFound(err) {
				return nil, fmt.Errorf("label %q not found", ref)
			}
			return nil, err
		}
		ids = append(ids, label.ID)
	}
	return ids, nil
}
