package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"taskly/internal/models"
)

// TaskRelations holds the related records of a set of tasks, grouped by task id.
type TaskRelations struct {
	Lists       map[int64]models.List
	Labels      map[int64][]models.Label
	Subtasks    map[int64][]models.Task
	Reminders   map[int64][]models.Reminder
	Attachments map[int64][]models.Attachment
	Activity    map[int64][]models.ActivityLog
}

// LoadTaskRelations loads everything attached to tasks with one query per
// related table (per chunk of ids).
func (s *Store) LoadTaskRelations(ctx context.Context, tasks []models.Task) (TaskRelations, error) {
	var rel TaskRelations

	ids := make([]int64, 0, len(tasks))
	listIDs := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
		listIDs = append(listIDs, task.ListID)
	}
	ids = uniqueIDs(ids)

	var err error
	if rel.Lists, err = s.ListsByIDs(ctx, listIDs); err != nil {
		return rel, err
	}
	if rel.Labels, err = s.ListLabelsForTasks(ctx, ids); err != nil {
		return rel, err
	}
	if rel.Subtasks, err = s.ListSubtasksForTasks(ctx, ids); err != nil {
		return rel, err
	}
	if rel.Reminders, err = s.ListRemindersForTasks(ctx, ids); err != nil {
		return rel, err
	}
	if rel.Attachments, err = s.ListAttachmentsForTasks(ctx, ids); err != nil {
		return rel, err
	}
	if rel.Activity, err = s.ListActivityForTasks(ctx, ids); err != nil {
		return rel, err
	}
	return rel, nil
}

// ListLabelsForTasks returns labels mapped by task id, each ordered by name.
func (s *Store) ListLabelsForTasks(ctx context.Context, ids []int64) (map[int64][]models.Label, error) {
	out := make(map[int64][]models.Label)
	err := s.selectIn(ctx, ids, `
		SELECT tl.task_id, l.id, l.name, l.color, l.icon, l.created_at
		FROM task_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id IN (?)
		ORDER BY l.name ASC, l.id ASC
	`, func(rows *sqlx.Rows) error {
		var row struct {
			TaskID    int64  `db:"task_id"`
			ID        int64  `db:"id"`
			Name      string `db:"name"`
			Color     string `db:"color"`
			Icon      string `db:"icon"`
			CreatedAt string `db:"created_at"`
		}
		if err := rows.StructScan(&row); err != nil {
			return err
		}
		label, err := labelRow{ID: row.ID, Name: row.Name, Color: row.Color, Icon: row.Icon, CreatedAt: row.CreatedAt}.toModel()
		if err != nil {
			return err
		}
		out[row.TaskID] = append(out[row.TaskID], label)
		return nil
	})
	return out, err
}

// ListSubtasksForTasks returns direct children mapped by parent id, oldest first.
func (s *Store) ListSubtasksForTasks(ctx context.Context, ids []int64) (map[int64][]models.Task, error) {
	out := make(map[int64][]models.Task)
	err := s.selectIn(ctx, ids,
		"SELECT "+taskColumns+" FROM tasks WHERE parent_task_id IN (?) ORDER BY created_at ASC, id ASC",
		func(rows *sqlx.Rows) error {
			var row taskRow
			if err := rows.StructScan(&row); err != nil {
				return err
			}
			task, err := row.toModel()
			if err != nil {
				return err
			}
			out[row.ParentTaskID.Int64] = append(out[row.ParentTaskID.Int64], task)
			return nil
		})
	return out, err
}

// ListRemindersForTasks returns reminders mapped by task id, earliest first.
func (s *Store) ListRemindersForTasks(ctx context.Context, ids []int64) (map[int64][]models.Reminder, error) {
	out := make(map[int64][]models.Reminder)
	err := s.selectIn(ctx, ids,
		"SELECT "+reminderColumns+" FROM reminders WHERE task_id IN (?) ORDER BY remind_at ASC, id ASC",
		func(rows *sqlx.Rows) error {
			var row reminderRow
			if err := rows.StructScan(&row); err != nil {
				return err
			}
			reminder, err := row.toModel()
			if err != nil {
				return err
			}
			out[row.TaskID] = append(out[row.TaskID], reminder)
			return nil
		})
	return out, err
}

// ListAttachmentsForTasks returns attachments mapped by task id, newest first.
func (s *Store) ListAttachmentsForTasks(ctx context.Context, ids []int64) (map[int64][]models.Attachment, error) {
	out := make(map[int64][]models.Attachment)
	err := s.selectIn(ctx, ids,
		"SELECT "+attachmentColumns+" FROM attachments WHERE task_id IN (?) ORDER BY created_at DESC, id DESC",
		func(rows *sqlx.Rows) error {
			var row attachmentRow
			if err := rows.StructScan(&row); err != nil {
				return err
			}
			attachment, err := row.toModel()
			if err != nil {
				return err
			}
			out[row.TaskID] = append(out[row.TaskID], attachment)
			return nil
		})
	return out, err
}

// ListActivityForTasks returns activity logs mapped by task id, newest first.
func (s *Store) ListActivityForTasks(ctx context.Context, ids []int64) (map[int64][]models.ActivityLog, error) {
	out := make(map[int64][]models.ActivityLog)
	err := s.selectIn(ctx, ids,
		"SELECT id, task_id, action, old_value, new_value, changed_at FROM activity_logs WHERE task_id IN (?) ORDER BY changed_at DESC, id DESC",
		func(rows *sqlx.Rows) error {
			var row struct {
				ID        int64   `db:"id"`
				TaskID    int64   `db:"task_id"`
				Action    string  `db:"action"`
				OldValue  *string `db:"old_value"`
				NewValue  *string `db:"new_value"`
				ChangedAt string  `db:"changed_at"`
			}
			if err := rows.StructScan(&row); err != nil {
				return err
			}
			changedAt, err := parseTime(row.ChangedAt)
			if err != nil {
				return err
			}
			out[row.TaskID] = append(out[row.TaskID], models.ActivityLog{
				ID:        row.ID,
				TaskID:    row.TaskID,
				Action:    row.Action,
				OldValue:  row.OldValue,
				NewValue:  row.NewValue,
				ChangedAt: changedAt,
			})
			return nil
		})
	return out, err
}

// selectIn runs query once per chunk of ids, expanding its single IN (?) with sqlx.In.
func (s *Store) selectIn(ctx context.Context, ids []int64, query string, scan func(*sqlx.Rows) error) error {
	for _, chunk := range chunkIDs(uniqueIDs(ids)) {
		expanded, args, err := sqlx.In(query, chunk)
		if err != nil {
			return err
		}
		rows, err := s.db.QueryxContext(ctx, s.db.Rebind(expanded), args...)
		if err != nil {
			return err
		}
		for rows.Next() {
			if err := scan(rows); err != nil {
				_ = rows.Close()
				return err
			}
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return err
		}
		if err := rows.Close(); err != nil {
			return err
		}
	}
	return nil
}
