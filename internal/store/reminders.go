package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskly/internal/models"
)

const reminderColumns = "id, task_id, remind_at, message, sent, created_at"

type reminderRow struct {
	ID        int64          `db:"id"`
	TaskID    int64          `db:"task_id"`
	RemindAt  string         `db:"remind_at"`
	Message   sql.NullString `db:"message"`
	Sent      bool           `db:"sent"`
	CreatedAt string         `db:"created_at"`
}

func (r reminderRow) toModel() (models.Reminder, error) {
	reminder := models.Reminder{ID: r.ID, TaskID: r.TaskID, Message: r.Message.String, Sent: r.Sent}
	var err error
	if reminder.RemindAt, err = parseTime(r.RemindAt); err != nil {
		return reminder, fmt.Errorf("reminder %d remind_at: %w", r.ID, err)
	}
	if reminder.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return reminder, fmt.Errorf("reminder %d created_at: %w", r.ID, err)
	}
	return reminder, nil
}

// CreateReminder inserts a reminder and sets reminder.ID.
func (s *Store) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	if reminder == nil {
		return fmt.Errorf("reminder is required")
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO reminders (task_id, remind_at, message, sent, created_at) VALUES (?, ?, ?, ?, ?)",
		reminder.TaskID, formatTime(reminder.RemindAt), nullIfEmpty(reminder.Message), reminder.Sent, formatTime(reminder.CreatedAt),
	)
	if err != nil {
		return err
	}
	reminder.ID, err = res.LastInsertId()
	return err
}

// GetReminder returns a reminder by id, or nil when it does not exist.
func (s *Store) GetReminder(ctx context.Context, id int64) (*models.Reminder, error) {
	var row reminderRow
	err := s.db.GetContext(ctx, &row, "SELECT "+reminderColumns+" FROM reminders WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	reminder, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// MarkReminderSent flags a reminder as sent and reports whether it exists.
func (s *Store) MarkReminderSent(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE reminders SET sent = 1 WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteReminder removes a reminder.
func (s *Store) DeleteReminder(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListDueReminders returns unsent reminders due at or before asOf.
func (s *Store) ListDueReminders(ctx context.Context, asOf time.Time) ([]models.Reminder, error) {
	var rows []reminderRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT "+reminderColumns+" FROM reminders WHERE sent = 0 ORDER BY remind_at ASC, id ASC",
	); err != nil {
		return nil, err
	}

	out := []models.Reminder{}
	for _, row := range rows {
		reminder, err := row.toModel()
		if err != nil {
			return nil, err
		}
		if reminder.RemindAt.After(asOf) {
			continue
		}
		out = append(out, reminder)
	}
	return out, nil
}
