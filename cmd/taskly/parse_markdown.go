package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"taskly/internal/api"
	"taskly/internal/models"
)

var listItemRegex = regexp.MustCompile(`^\s*[-*]\s+(?:\[[ xX]\]\s+)?(.*)$`)

// parseMarkdown splits an optional YAML front matter block from a bullet list.
// Each bullet becomes one task name.
func parseMarkdown(input string) (map[string]any, []string, error) {
	frontMatter := map[string]any{}
	content := input

	lines := strings.Split(input, "\n")
	if len(lines) >= 3 && strings.TrimSpace(lines[0]) == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				end = i
				break
			}
		}
		if end == -1 {
			return nil, nil, fmt.Errorf("front matter not closed")
		}
		frontText := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(frontText), &frontMatter); err != nil {
			return nil, nil, err
		}
		content = strings.Join(lines[end+1:], "\n")
	}

	items := []string{}
	for _, line := range strings.Split(content, "\n") {
		match := listItemRegex.FindStringSubmatch(line)
		if len(match) == 2 {
			item := strings.TrimSpace(match[1])
			if item != "" {
				items = append(items, item)
			}
		}
	}

	return frontMatter, items, nil
}

// frontMatterToRequest builds the shared part of every task created from a
// file. Label references are returned unresolved.
func frontMatterToRequest(frontMatter map[string]any) (api.TaskCreateRequest, []string, error) {
	req := api.TaskCreateRequest{}

	if value, ok := frontMatter["description"].(string); ok {
		req.Description = value
	}
	if value, ok := frontMatter["priority"].(string); ok {
		req.Priority = value
	}
	if value, ok := frontMatter["recurring_type"].(string); ok {
		req.RecurringType = value
	}
	if value, ok := frontMatter["recurring_config"].(string); ok {
		req.RecurringConfig = value
	}
	if value, ok := frontMatter["date"]; ok {
		req.Date = yamlString(value)
	}
	if value, ok := frontMatter["deadline"]; ok {
		req.Deadline = yamlString(value)
	}
	if value, ok := frontMatter["list_id"]; ok {
		id, err := yamlInt(value)
		if err != nil {
			return req, nil, fmt.Errorf("list_id: %w", err)
		}
		listID := int64(id)
		req.ListID = &listID
	}
	if value, ok := frontMatter["estimate_minutes"]; ok {
		minutes, err := yamlInt(value)
		if err != nil {
			return req, nil, fmt.Errorf("estimate_minutes: %w", err)
		}
		req.EstimateMinutes = &minutes
	}

	var labels []string
	if value, ok := frontMatter["labels"]; ok {
		labels = toStringSlice(value)
	}
	return req, labels, nil
}

func yamlString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		if v.Equal(v.Truncate(24 * time.Hour)) {
			return v.Format(models.DateLayout)
		}
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func yamlInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("expected a number, got %v", value)
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case int:
				out = append(out, strconv.Itoa(s))
			}
		}
		return out
	case string:
		return splitCommaList(v)
	}
	return nil
}
