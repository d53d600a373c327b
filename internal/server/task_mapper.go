package server

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"taskly/internal/api"
	"taskly/internal/models"
	"taskly/internal/store"
)

const actionLabelIDs = "label_ids"

// taskChanges is a validated partial update. It is planned against the
// current row inside the store transaction.
type taskChanges struct {
	fields   []fieldChange
	status   *models.TaskStatus
	labelIDs *[]int64
}

type fieldChange struct {
	column string
	value  any
	text   *string
}

func (c *taskChanges) add(column string, value any, text *string) {
	c.fields = append(c.fields, fieldChange{column: column, value: value, text: text})
}

// plan assigns every supplied field and logs each of them, including
// re-sent values and clears of already empty fields. An unchanged name is
// the one field that is not logged.
func (c taskChanges) plan(current models.Task, currentLabels []int64, now time.Time) (store.TaskUpdate, error) {
	update := store.TaskUpdate{UpdatedAt: now}
	for _, f := range c.fields {
		if err := update.Set(f.column, f.value); err != nil {
			return update, err
		}
		old := taskFieldText(current, f.column)
		if f.column == "name" && sameText(old, f.text) {
			continue
		}
		update.Log(f.column, old, f.text)
	}

	if c.status != nil {
		var err error
		switch {
		case *c.status == models.StatusCompleted && current.CompletedAt == nil:
			completedAt := now
			err = update.Set("completed_at", &completedAt)
		case *c.status != models.StatusCompleted && current.CompletedAt != nil:
			err = update.Set("completed_at", (*time.Time)(nil))
		}
		if err != nil {
			return update, err
		}
	}

	if c.labelIDs != nil {
		update.ReplaceLabels(*c.labelIDs)
		update.Log(actionLabelIDs, idsText(currentLabels), idsText(*c.labelIDs))
	}
	return update, nil
}

// taskChanges validates req and resolves every id it references.
func (s *TaskService) taskChanges(ctx context.Context, req api.TaskUpdateRequest) (taskChanges, error) {
	var c taskChanges

	if req.Name != nil {
		name, err := normalizeName(*req.Name, "name")
		if err != nil {
			return c, err
		}
		c.add("name", name, &name)
	}
	if req.Description.Set {
		description := nullableText(req.Description)
		c.add("description", description, textOrNil(description))
	}
	if req.ListID != nil {
		if err := s.ensureList(ctx, *req.ListID); err != nil {
			return c, err
		}
		c.add("list_id", *req.ListID, int64Text(req.ListID))
	}
	if req.Date.Set {
		date, err := normalizeDate(nullableText(req.Date), "date")
		if err != nil {
			return c, err
		}
		c.add("date", date, textOrNil(date))
	}
	if req.Deadline.Set {
		deadline, err := normalizeDeadline(nullableText(req.Deadline), s.loc)
		if err != nil {
			return c, err
		}
		c.add("deadline", deadline, timeText(deadline))
	}
	if req.EstimateMinutes.Set {
		minutes := req.EstimateMinutes.Ptr()
		if err := validateMinutes(minutes, "estimate_minutes"); err != nil {
			return c, err
		}
		c.add("estimate_minutes", minutes, intText(minutes))
	}
	if req.ActualMinutes.Set {
		minutes := req.ActualMinutes.Ptr()
		if err := validateMinutes(minutes, "actual_minutes"); err != nil {
			return c, err
		}
		c.add("actual_minutes", minutes, intText(minutes))
	}
	if req.Priority != nil {
		priority, err := normalizePriority(*req.Priority)
		if err != nil {
			return c, err
		}
		text := string(priority)
		c.add("priority", priority, &text)
	}
	if req.Status != nil {
		status, err := normalizeStatus(*req.Status)
		if err != nil {
			return c, err
		}
		text := string(status)
		c.status = &status
		c.add("status", status, &text)
	}
	if req.ParentTaskID.Set {
		parentID := req.ParentTaskID.Ptr()
		if parentID != nil {
			if err := s.ensureParent(ctx, *parentID, req.ID); err != nil {
				return c, err
			}
		}
		c.add("parent_task_id", parentID, int64Text(parentID))
	}
	if req.RecurringType.Set {
		recurring, err := normalizeRecurringType(nullableText(req.RecurringType))
		if err != nil {
			return c, err
		}
		c.add("recurring_type", recurring, textOrNil(recurring))
	}
	if req.RecurringConfig.Set {
		config := strings.TrimSpace(nullableText(req.RecurringConfig))
		c.add("recurring_config", config, textOrNil(config))
	}
	if req.LabelIDs.Set {
		ids := []int64{}
		if req.LabelIDs.Valid {
			resolved, err := s.resolveLabelIDs(ctx, req.LabelIDs.Value)
			if err != nil {
				return c, err
			}
			ids = resolved
		}
		c.labelIDs = &ids
	}

	return c, nil
}

// taskFieldText renders the current value of column the way the activity log stores it.
func taskFieldText(task models.Task, column string) *string {
	switch column {
	case "name":
		return textOrNil(task.Name)
	case "description":
		return textOrNil(task.Description)
	case "list_id":
		return int64Text(&task.ListID)
	case "date":
		return textOrNil(task.Date)
	case "deadline":
		return timeText(task.Deadline)
	case "estimate_minutes":
		return intText(task.EstimateMinutes)
	case "actual_minutes":
		return intText(task.ActualMinutes)
	case "priority":
		return textOrNil(string(task.Priority))
	case "status":
		return textOrNil(string(task.Status))
	case "parent_task_id":
		return int64Text(task.ParentTaskID)
	case "recurring_type":
		return textOrNil(task.RecurringType)
	case "recurring_config":
		return textOrNil(task.RecurringConfig)
	default:
		return nil
	}
}

func nullableText(value api.Nullable[string]) string {
	if !value.Valid {
		return ""
	}
	return value.Value
}

func textOrNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func int64Text(value *int64) *string {
	if value == nil {
		return nil
	}
	text := strconv.FormatInt(*value, 10)
	return &text
}

func intText(value *int) *string {
	if value == nil {
		return nil
	}
	text := strconv.Itoa(*value)
	return &text
}

func timeText(value *time.Time) *string {
	if value == nil {
		return nil
	}
	text := value.UTC().Format(time.RFC3339)
	return &text
}

// idsText renders a label set as sorted csv; an empty set is absent.
func idsText(ids []int64) *string {
	if len(ids) == 0 {
		return nil
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	parts := make([]string, 0, len(sorted))
	for _, id := range sorted {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	text := strings.Join(parts, ",")
	return &text
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
