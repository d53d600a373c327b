package server

import (
	"context"
	"fmt"
	"strings"

	"taskly/internal/api"
	"taskly/internal/models"
)

// AddReminder schedules a reminder on a task.
func (s *TaskService) AddReminder(ctx context.Context, taskID int64, req api.ReminderCreateRequest) (models.Reminder, error) {
	var zero models.Reminder
	if req.RemindAt.IsZero() {
		return zero, badRequestCode(fmt.Errorf("remind_at is required"), ErrCodeMissingRequired)
	}
	exists, err := s.store.TaskExists(ctx, taskID)
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, notFound(fmt.Errorf("task %d not found", taskID))
	}

	reminder := &models.Reminder{
		TaskID:    taskID,
		RemindAt:  req.RemindAt.UTC(),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: s.nowUTC(),
	}
	if err := s.store.CreateReminder(ctx, reminder); err != nil {
		return zero, err
	}
	return *reminder, nil
}

func (s *TaskService) DeleteReminder(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteReminder(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundCode(fmt.Errorf("reminder %d not found", id), ErrCodeReminderNotFound)
	}
	return nil
}

// MarkReminderSent flags a reminder as delivered.
func (s *TaskService) MarkReminderSent(ctx context.Context, id int64) (models.Reminder, error) {
	var zero models.Reminder
	ok, err := s.store.MarkReminderSent(ctx, id)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, notFoundCode(fmt.Errorf("reminder %d not found", id), ErrCodeReminderNotFound)
	}
	reminder, err := s.store.GetReminder(ctx, id)
	if err != nil {
		return zero, err
	}
	if reminder == nil {
		return zero, notFoundCode(fmt.Errorf("reminder %d not found", id), ErrCodeReminderNotFound)
	}
	return *reminder, nil
}

// DueReminders returns unsent reminders due at or before now.
func (s *TaskService) DueReminders(ctx context.Context) ([]models.Reminder, error) {
	reminders, err := s.store.ListDueReminders(ctx, s.nowUTC())
	if err != nil {
		return nil, err
	}
	return orEmpty(reminders), nil
}
