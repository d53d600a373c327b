package models

import "time"

// Task is the core schedulable unit of work.
type Task struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	ListID          int64      `json:"list_id"`
	Date            string     `json:"date,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	EstimateMinutes *int       `json:"estimate_minutes,omitempty"`
	ActualMinutes   *int       `json:"actual_minutes,omitempty"`
	Priority        Priority   `json:"priority"`
	Status          TaskStatus `json:"status"`
	ParentTaskID    *int64     `json:"parent_task_id,omitempty"`
	RecurringType   string     `json:"recurring_type,omitempty"`
	RecurringConfig string     `json:"recurring_config,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// DueAt returns the effective due reference: deadline when set, else the
// start of Date in loc. ok is false when neither is set.
func (t Task) DueAt(loc *time.Location) (time.Time, bool) {
	if t.Deadline != nil {
		return *t.Deadline, true
	}
	if t.Date == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(DateLayout, t.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// ActivityLog is one append-only change record of a task.
type ActivityLog struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Action    string    `json:"action"`
	OldValue  *string   `json:"old_value,omitempty"`
	NewValue  *string   `json:"new_value,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// TaskDeletion is the durable audit record written when a task is deleted.
// It is not tied to the tasks table, so it survives the delete cascade.
type TaskDeletion struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Name      string    `json:"name"`
	Snapshot  string    `json:"snapshot"`
	DeletedAt time.Time `json:"deleted_at"`
}
