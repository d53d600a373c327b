package store

import (
	"context"
	"time"

	"taskly/internal/models"
)

// TaskStore abstracts task storage backends.
type TaskStore interface {
	TaskExists(ctx context.Context, id int64) (bool, error)
	CreateTask(ctx context.Context, task *models.Task, labelIDs []int64, snapshot string) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, plan UpdatePlanner) (bool, error)
	DeleteTask(ctx context.Context, id int64, snapshot string, deletedAt time.Time) (bool, error)
	ListTasks(ctx context.Context, filter ListFilter) ([]models.Task, error)
	ListTaskDeletions(ctx context.Context, limit int) ([]models.TaskDeletion, error)
	LoadTaskRelations(ctx context.Context, tasks []models.Task) (TaskRelations, error)
}

// ListStore abstracts list storage.
type ListStore interface {
	CreateList(ctx context.Context, list *models.List) error
	GetList(ctx context.Context, id int64) (*models.List, error)
	ListLists(ctx context.Context) ([]models.List, error)
	UpdateList(ctx context.Context, id int64, update ListUpdate) (bool, error)
	DeleteList(ctx context.Context, id int64) (bool, error)
	ListExists(ctx context.Context, id int64) (bool, error)
	ListTaskCount(ctx context.Context, id int64) (int, error)
	ListTaskCounts(ctx context.Context) (map[int64]int, error)
}

// LabelStore abstracts label storage.
type LabelStore interface {
	CreateLabel(ctx context.Context, label *models.Label) error
	GetLabel(ctx context.Context, id int64) (*models.Label, error)
	GetLabelByName(ctx context.Context, name string) (*models.Label, error)
	ListAllLabels(ctx context.Context) ([]models.Label, error)
	UpdateLabel(ctx context.Context, id int64, update LabelUpdate) (bool, error)
	DeleteLabel(ctx context.Context, id int64) (bool, error)
	LabelTaskCount(ctx context.Context, id int64) (int, error)
	LabelTaskCounts(ctx context.Context) (map[int64]int, error)
	MissingLabelIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// ReminderStore abstracts reminder storage.
type ReminderStore interface {
	CreateReminder(ctx context.Context, reminder *models.Reminder) error
	GetReminder(ctx context.Context, id int64) (*models.Reminder, error)
	MarkReminderSent(ctx context.Context, id int64) (bool, error)
	DeleteReminder(ctx context.Context, id int64) (bool, error)
	ListDueReminders(ctx context.Context, asOf time.Time) ([]models.Reminder, error)
}

// AttachmentStore abstracts attachment metadata storage.
type AttachmentStore interface {
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	GetAttachment(ctx context.Context, id int64) (*models.Attachment, error)
	ListAttachmentsByTask(ctx context.Context, taskID int64) ([]models.Attachment, error)
	DeleteAttachment(ctx context.Context, id int64) (bool, error)
	CountAttachmentsByPath(ctx context.Context, filePath string) (int, error)
}

// ServiceStore is everything the HTTP services need from one backend.
type ServiceStore interface {
	TaskStore
	ListStore
	LabelStore
	ReminderStore
	AttachmentStore
	SchemaVersion(ctx context.Context) (int, error)
}

var (
	_ ServiceStore    = (*Store)(nil)
	_ TaskStore       = (*Store)(nil)
	_ ListStore       = (*Store)(nil)
	_ LabelStore      = (*Store)(nil)
	_ ReminderStore   = (*Store)(nil)
	_ AttachmentStore = (*Store)(nil)
)
