package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskly/internal/models"
)

const taskColumns = "id, name, description, list_id, date, deadline, estimate_minutes, actual_minutes, priority, status, parent_task_id, recurring_type, recurring_config, created_at, updated_at, completed_at"

// deadlineLayout is fixed-width in UTC, so stored deadlines order correctly as text.
const deadlineLayout = "2006-01-02T15:04:05Z"

type taskRow struct {
	ID              int64          `db:"id"`
	Name            string         `db:"name"`
	Description     sql.NullString `db:"description"`
	ListID          int64          `db:"list_id"`
	Date            sql.NullString `db:"date"`
	Deadline        sql.NullString `db:"deadline"`
	EstimateMinutes sql.NullInt64  `db:"estimate_minutes"`
	ActualMinutes   sql.NullInt64  `db:"actual_minutes"`
	Priority        string         `db:"priority"`
	Status          string         `db:"status"`
	ParentTaskID    sql.NullInt64  `db:"parent_task_id"`
	RecurringType   sql.NullString `db:"recurring_type"`
	RecurringConfig sql.NullString `db:"recurring_config"`
	CreatedAt       string         `db:"created_at"`
	UpdatedAt       string         `db:"updated_at"`
	CompletedAt     sql.NullString `db:"completed_at"`
}

func (r taskRow) toModel() (models.Task, error) {
	task := models.Task{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description.String,
		ListID:          r.ListID,
		Date:            r.Date.String,
		Priority:        models.Priority(r.Priority),
		Status:          models.TaskStatus(r.Status),
		RecurringType:   r.RecurringType.String,
		RecurringConfig: r.RecurringConfig.String,
		EstimateMinutes: intPtr(r.EstimateMinutes),
		ActualMinutes:   intPtr(r.ActualMinutes),
	}
	if r.ParentTaskID.Valid {
		parent := r.ParentTaskID.Int64
		task.ParentTaskID = &parent
	}

	var err error
	if task.Deadline, err = parseNullTime(r.Deadline); err != nil {
		return task, fmt.Errorf("task %d deadline: %w", r.ID, err)
	}
	if task.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return task, fmt.Errorf("task %d created_at: %w", r.ID, err)
	}
	if task.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return task, fmt.Errorf("task %d updated_at: %w", r.ID, err)
	}
	if task.CompletedAt, err = parseNullTime(r.CompletedAt); err != nil {
		return task, fmt.Errorf("task %d completed_at: %w", r.ID, err)
	}
	return task, nil
}

type listRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Color     string `db:"color"`
	Emoji     string `db:"emoji"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r listRow) toModel() (models.List, error) {
	list := models.List{ID: r.ID, Name: r.Name, Color: r.Color, Emoji: r.Emoji}
	var err error
	if list.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return list, err
	}
	if list.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return list, err
	}
	return list, nil
}

type labelRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Color     string `db:"color"`
	Icon      string `db:"icon"`
	CreatedAt string `db:"created_at"`
}

func (r labelRow) toModel() (models.Label, error) {
	label := models.Label{ID: r.ID, Name: r.Name, Color: r.Color, Icon: r.Icon}
	var err error
	label.CreatedAt, err = parseTime(r.CreatedAt)
	return label, err
}

func scanTasks(rows *sqlx.Rows) ([]models.Task, error) {
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var row taskRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		task, err := row.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimRight(strings.Repeat("?,", count), ",")
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return formatTime(*value)
}

// FormatDeadline renders a deadline the way it is stored.
func FormatDeadline(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return value.UTC().Format(deadlineLayout)
}

// timeLayout is fixed width so text ordering in SQL matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func parseNullTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	parsed, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// chunkIDs splits ids so each IN (...) list stays under SQLite's variable limit.
func chunkIDs(ids []int64) [][]int64 {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]int64, 0, (len(ids)+inChunkSize-1)/inChunkSize)
	for start := 0; start < len(ids); start += inChunkSize {
		end := start + inChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
