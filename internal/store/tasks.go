package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskly/internal/models"
)

// ListFilter selects tasks. All set predicates are ANDed; LabelIDs match any.
type ListFilter struct {
	ListID           *int64
	LabelIDs         []int64
	Priority         string
	Status           string
	Date             string
	StartDate        string
	EndDate          string
	ParentID         *int64
	NoParent         bool
	ExcludeCompleted bool
	Search           string
	// DueBeforeDate keeps tasks with a deadline, or with a date before it.
	DueBeforeDate string
	Limit         int
	Offset        int
}

// ActivityEntry is one activity log row to append.
type ActivityEntry struct {
	Action   string
	OldValue *string
	NewValue *string
}

// TaskUpdate accumulates column assignments, an optional label replacement,
// and the activity rows describing them. It is applied in one transaction.
type TaskUpdate struct {
	assignments []assignment
	labelIDs    *[]int64
	activity    []ActivityEntry
	UpdatedAt   time.Time
}

type assignment struct {
	column string
	value  any
}

var updatableTaskColumns = map[string]struct{}{
	"name":             {},
	"description":      {},
	"list_id":          {},
	"date":             {},
	"deadline":         {},
	"estimate_minutes": {},
	"actual_minutes":   {},
	"priority":         {},
	"status":           {},
	"parent_task_id":   {},
	"recurring_type":   {},
	"recurring_config": {},
	"completed_at":     {},
}

// Set assigns value to column. Only task columns that callers may change are accepted.
func (u *TaskUpdate) Set(column string, value any) error {
	if _, ok := updatableTaskColumns[column]; !ok {
		return fmt.Errorf("column %q is not updatable", column)
	}
	value = columnValue(column, value)
	for i := range u.assignments {
		if u.assignments[i].column == column {
			u.assignments[i].value = value
			return nil
		}
	}
	u.assignments = append(u.assignments, assignment{column: column, value: value})
	return nil
}

// columnValue converts typed values to their stored form. Times become
// text, and empty optional strings become NULL.
func columnValue(column string, value any) any {
	switch v := value.(type) {
	case *time.Time:
		if column == "deadline" {
			return FormatDeadline(v)
		}
		return nullTime(v)
	case time.Time:
		if column == "deadline" {
			return FormatDeadline(&v)
		}
		return nullTime(&v)
	case string:
		if column == "name" || column == "priority" || column == "status" {
			return v
		}
		return nullIfEmpty(v)
	case models.Priority:
		return string(v)
	case models.TaskStatus:
		return string(v)
	}
	return value
}

// ReplaceLabels replaces the whole label set; an empty slice clears it.
func (u *TaskUpdate) ReplaceLabels(ids []int64) {
	replaced := append([]int64{}, ids...)
	u.labelIDs = &replaced
}

// Log appends an activity entry.
func (u *TaskUpdate) Log(action string, oldValue, newValue *string) {
	u.activity = append(u.activity, ActivityEntry{Action: action, OldValue: oldValue, NewValue: newValue})
}

// Columns returns the assigned column names in assignment order.
func (u TaskUpdate) Columns() []string {
	out := make([]string, 0, len(u.assignments))
	for _, a := range u.assignments {
		out = append(out, a.column)
	}
	return out
}

// Activity returns the queued activity entries.
func (u TaskUpdate) Activity() []ActivityEntry {
	return u.activity
}

// IsEmpty reports whether applying u would write nothing.
func (u TaskUpdate) IsEmpty() bool {
	return len(u.assignments) == 0 && u.labelIDs == nil && len(u.activity) == 0
}

func (u TaskUpdate) render(id int64) (string, []any) {
	set := make([]string, 0, len(u.assignments)+1)
	args := make([]any, 0, len(u.assignments)+2)
	for _, a := range u.assignments {
		set = append(set, a.column+" = ?")
		args = append(args, a.value)
	}
	set = append(set, "updated_at = ?")
	args = append(args, formatTime(u.UpdatedAt), id)
	return fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(set, ", ")), args
}

// UpdatePlanner computes the update for the current state of a task.
type UpdatePlanner func(current models.Task, labelIDs []int64) (TaskUpdate, error)

// CreateTask inserts a task with its label associations and a "created"
// activity entry carrying snapshot. task.ID is set on success.
func (s *Store) CreateTask(ctx context.Context, task *models.Task, labelIDs []int64, snapshot string) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (
				name, description, list_id, date, deadline, estimate_minutes, actual_minutes,
				priority, status, parent_task_id, recurring_type, recurring_config,
				created_at, updated_at, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			task.Name,
			nullIfEmpty(task.Description),
			task.ListID,
			nullIfEmpty(task.Date),
			FormatDeadline(task.Deadline),
			task.EstimateMinutes,
			task.ActualMinutes,
			string(task.Priority),
			string(task.Status),
			task.ParentTaskID,
			nullIfEmpty(task.RecurringType),
			nullIfEmpty(task.RecurringConfig),
			formatTime(task.CreatedAt),
			formatTime(task.UpdatedAt),
			nullTime(task.CompletedAt),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		if err := insertTaskLabels(ctx, tx, id, labelIDs); err != nil {
			return err
		}
		created := snapshot
		if err := insertActivity(ctx, tx, id, task.CreatedAt, []ActivityEntry{{Action: models.ActionCreated, NewValue: &created}}); err != nil {
			return err
		}

		task.ID = id
		return nil
	})
}

// GetTask returns a task by id, or nil when it does not exist.
func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	return getTask(ctx, s.db, id)
}

func getTask(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Task, error) {
	var row taskRow
	err := sqlx.GetContext(ctx, q, &row, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	task, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskExists checks whether a task exists by id.
func (s *Store) TaskExists(ctx context.Context, id int64) (bool, error) {
	var exists int
	err := s.db.GetContext(ctx, &exists, "SELECT 1 FROM tasks WHERE id = ? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateTask loads the task, asks plan for the changes, and applies them in
// one transaction. It returns false, writing nothing, when the task is missing.
func (s *Store) UpdateTask(ctx context.Context, id int64, plan UpdatePlanner) (bool, error) {
	if plan == nil {
		return false, fmt.Errorf("update plan is required")
	}

	found := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		found = true

		labelIDs, err := taskLabelIDs(ctx, tx, id)
		if err != nil {
			return err
		}

		update, err := plan(*current, labelIDs)
		if err != nil {
			return err
		}
		if update.IsEmpty() {
			return nil
		}
		if update.UpdatedAt.IsZero() {
			update.UpdatedAt = time.Now().UTC()
		}

		if len(update.assignments) > 0 || update.labelIDs != nil {
			query, args := update.render(id)
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}
		if update.labelIDs != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM task_labels WHERE task_id = ?", id); err != nil {
				return err
			}
			if err := insertTaskLabels(ctx, tx, id, *update.labelIDs); err != nil {
				return err
			}
		}
		return insertActivity(ctx, tx, id, update.UpdatedAt, update.activity)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// DeleteTask records a durable deletion row, detaches direct children, and
// removes the task. It returns false when the task does not exist.
func (s *Store) DeleteTask(ctx context.Context, id int64, snapshot string, deletedAt time.Time) (bool, error) {
	found := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		found = true

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO task_deletions (task_id, name, snapshot, deleted_at) VALUES (?, ?, ?, ?)",
			id, current.Name, snapshot, formatTime(deletedAt),
		); err != nil {
			return err
		}

		var children []int64
		if err := tx.SelectContext(ctx, &children, "SELECT id FROM tasks WHERE parent_task_id = ? ORDER BY id", id); err != nil {
			return err
		}
		if len(children) > 0 {
			query, args, err := sqlx.In("UPDATE tasks SET parent_task_id = NULL, updated_at = ? WHERE id IN (?)", formatTime(deletedAt), children)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
				return err
			}
			oldParent := fmt.Sprintf("%d", id)
			for _, childID := range children {
				entry := ActivityEntry{Action: "parent_task_id", OldValue: &oldParent}
				if err := insertActivity(ctx, tx, childID, deletedAt, []ActivityEntry{entry}); err != nil {
					return err
				}
			}
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
		return err
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// ListTasks returns tasks matching the provided filter.
func (s *Store) ListTasks(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	query, args := buildListQuery(filter)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

// ListTaskDeletions returns deletion audit rows, newest first.
func (s *Store) ListTaskDeletions(ctx context.Context, limit int) ([]models.TaskDeletion, error) {
	query := "SELECT id, task_id, name, snapshot, deleted_at FROM task_deletions ORDER BY deleted_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []struct {
		ID        int64  `db:"id"`
		TaskID    int64  `db:"task_id"`
		Name      string `db:"name"`
		Snapshot  string `db:"snapshot"`
		DeletedAt string `db:"deleted_at"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]models.TaskDeletion, 0, len(rows))
	for _, row := range rows {
		deletedAt, err := parseTime(row.DeletedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, models.TaskDeletion{ID: row.ID, TaskID: row.TaskID, Name: row.Name, Snapshot: row.Snapshot, DeletedAt: deletedAt})
	}
	return out, nil
}

func taskLabelIDs(ctx context.Context, q sqlx.QueryerContext, taskID int64) ([]int64, error) {
	ids := []int64{}
	err := sqlx.SelectContext(ctx, q, &ids, "SELECT label_id FROM task_labels WHERE task_id = ? ORDER BY label_id", taskID)
	return ids, err
}

func insertTaskLabels(ctx context.Context, tx *sqlx.Tx, taskID int64, labelIDs []int64) error {
	if len(labelIDs) == 0 {
		return nil
	}
	values := make([]string, 0, len(labelIDs))
	args := make([]any, 0, len(labelIDs)*2)
	for _, labelID := range labelIDs {
		values = append(values, "(?, ?)")
		args = append(args, taskID, labelID)
	}
	_, err := tx.ExecContext(ctx, "INSERT INTO task_labels (task_id, label_id) VALUES "+strings.Join(values, ","), args...)
	return err
}

func insertActivity(ctx context.Context, tx *sqlx.Tx, taskID int64, at time.Time, entries []ActivityEntry) error {
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO activity_logs (task_id, action, old_value, new_value, changed_at) VALUES (?, ?, ?, ?, ?)",
			taskID, entry.Action, entry.OldValue, entry.NewValue, formatTime(at),
		); err != nil {
			return err
		}
	}
	return nil
}
