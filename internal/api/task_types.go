package api

import (
	"time"

	"taskly/internal/models"
)

// TaskCreateRequest defines the payload for creating a task.
type TaskCreateRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	ListID          *int64  `json:"list_id,omitempty"`
	Date            string  `json:"date,omitempty"`
	Deadline        string  `json:"deadline,omitempty"`
	EstimateMinutes *int    `json:"estimate_minutes,omitempty"`
	Priority        string  `json:"priority,omitempty"`
	ParentTaskID    *int64  `json:"parent_task_id,omitempty"`
	RecurringType   string  `json:"recurring_type,omitempty"`
	RecurringConfig string  `json:"recurring_config,omitempty"`
	LabelIDs        []int64 `json:"label_ids,omitempty"`
}

// TaskUpdateRequest is a partial task update. Absent fields are untouched;
// clearable fields accept null.
type TaskUpdateRequest struct {
	ID              int64             `json:"id"`
	Name            *string           `json:"name,omitempty"`
	Description     Nullable[string]  `json:"description,omitzero"`
	ListID          *int64            `json:"list_id,omitempty"`
	Date            Nullable[string]  `json:"date,omitzero"`
	Deadline        Nullable[string]  `json:"deadline,omitzero"`
	EstimateMinutes Nullable[int]     `json:"estimate_minutes,omitzero"`
	ActualMinutes   Nullable[int]     `json:"actual_minutes,omitzero"`
	Priority        *string           `json:"priority,omitempty"`
	Status          *string           `json:"status,omitempty"`
	ParentTaskID    Nullable[int64]   `json:"parent_task_id,omitzero"`
	RecurringType   Nullable[string]  `json:"recurring_type,omitzero"`
	RecurringConfig Nullable[string]  `json:"recurring_config,omitzero"`
	LabelIDs        Nullable[[]int64] `json:"label_ids,omitzero"`
}

// TaskResponse is a task with everything attached to it.
type TaskResponse struct {
	models.Task
	List         *models.List         `json:"list,omitempty"`
	Labels       []models.Label       `json:"labels"`
	Subtasks     []models.Task        `json:"subtasks"`
	Reminders    []models.Reminder    `json:"reminders"`
	Attachments  []models.Attachment  `json:"attachments"`
	ActivityLogs []models.ActivityLog `json:"activity_logs"`
}

// ReminderCreateRequest defines the payload for POST /tasks/{id}/reminders.
type ReminderCreateRequest struct {
	RemindAt time.Time `json:"remind_at"`
	Message  string    `json:"message,omitempty"`
}
