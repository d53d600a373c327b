package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"taskly/internal/api"
	"taskly/internal/blobstore"
	"taskly/internal/models"
	"taskly/internal/store"
)

// maxParentDepth bounds the ancestor walk used for cycle detection.
const maxParentDepth = 1000

// TaskService centralizes task validation, defaults and assembly.
type TaskService struct {
	store  store.ServiceStore
	blobs  blobstore.Store
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewTaskService constructs a TaskService. loc decides calendar days.
func NewTaskService(st store.ServiceStore, blobs blobstore.Store, logger *slog.Logger, loc *time.Location, now func() time.Time) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &TaskService{store: st, blobs: blobs, logger: logger, loc: loc, now: now}
}

func (s *TaskService) nowUTC() time.Time {
	return s.now().UTC()
}

// Create creates a task from a request and returns it assembled.
func (s *TaskService) Create(ctx context.Context, req api.TaskCreateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse

	name, err := normalizeName(req.Name, "name")
	if err != nil {
		return resp, err
	}

	listID := models.DefaultListID
	if req.ListID != nil {
		listID = *req.ListID
	}
	if err := s.ensureList(ctx, listID); err != nil {
		return resp, err
	}

	date, err := normalizeDate(req.Date, "date")
	if err != nil {
		return resp, err
	}
	deadline, err := normalizeDeadline(req.Deadline, s.loc)
	if err != nil {
		return resp, err
	}
	if err := validateMinutes(req.EstimateMinutes, "estimate_minutes"); err != nil {
		return resp, err
	}
	priority, err := normalizePriority(req.Priority)
	if err != nil {
		return resp, err
	}
	recurring, err := normalizeRecurringType(req.RecurringType)
	if err != nil {
		return resp, err
	}
	if req.ParentTaskID != nil {
		if err := s.ensureParent(ctx, *req.ParentTaskID, 0); err != nil {
			return resp, err
		}
	}
	labelIDs, err := s.resolveLabelIDs(ctx, req.LabelIDs)
	if err != nil {
		return resp, err
	}

	snapshot, err := json.Marshal(req)
	if err != nil {
		return resp, internalError(fmt.Errorf("encode snapshot: %w", err))
	}

	now := s.nowUTC()
	task := &models.Task{
		Name:            name,
		Description:     req.Description,
		ListID:          listID,
		Date:            date,
		Deadline:        deadline,
		EstimateMinutes: req.EstimateMinutes,
		Priority:        priority,
		Status:          models.StatusPending,
		ParentTaskID:    req.ParentTaskID,
		RecurringType:   recurring,
		RecurringConfig: strings.TrimSpace(req.RecurringConfig),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateTask(ctx, task, labelIDs, string(snapshot)); err != nil {
		return resp, err
	}

	return s.Get(ctx, task.ID)
}

// Update applies a partial update and returns the task assembled.
func (s *TaskService) Update(ctx context.Context, req api.TaskUpdateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse
	if req.ID <= 0 {
		return resp, badRequestCode(fmt.Errorf("id is required"), ErrCodeInvalidID)
	}

	changes, err := s.taskChanges(ctx, req)
	if err != nil {
		return resp, err
	}

	now := s.nowUTC()
	found, err := s.store.UpdateTask(ctx, req.ID, func(current models.Task, labelIDs []int64) (store.TaskUpdate, error) {
		return changes.plan(current, labelIDs, now)
	})
	if err != nil {
		return resp, err
	}
	if !found {
		return resp, notFound(fmt.Errorf("task %d not found", req.ID))
	}

	return s.Get(ctx, req.ID)
}

// Get returns an assembled task by id.
func (s *TaskService) Get(ctx context.Context, id int64) (api.TaskResponse, error) {
	var resp api.TaskResponse

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return resp, err
	}
	if task == nil {
		return resp, notFound(fmt.Errorf("task %d not found", id))
	}

	assembled, err := s.assemble(ctx, []models.Task{*task})
	if err != nil {
		return resp, err
	}
	return assembled[0], nil
}

// Delete records the deletion, detaches subtasks and removes the task.
// Attachment bytes no longer referenced are removed afterwards.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(current)
	if err != nil {
		return internalError(fmt.Errorf("encode snapshot: %w", err))
	}

	found, err := s.store.DeleteTask(ctx, id, string(snapshot), s.nowUTC())
	if err != nil {
		return err
	}
	if !found {
		return notFound(fmt.Errorf("task %d not found", id))
	}

	for _, attachment := range current.Attachments {
		if err := releaseBlob(ctx, s.store, s.blobs, attachment.FilePath); err != nil {
			s.logger.Warn("release attachment blob", "task_id", id, "attachment_id", attachment.ID, "key", attachment.FilePath, "error", err)
		}
	}
	return nil
}

// List returns assembled tasks matching filter.
func (s *TaskService) List(ctx context.Context, filter store.ListFilter) ([]api.TaskResponse, error) {
	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, tasks)
}

// ByView narrows filter to the date window of view. Completed tasks are
// dropped when showCompleted is false.
func (s *TaskService) ByView(ctx context.Context, view string, showCompleted bool, filter store.ListFilter) ([]api.TaskResponse, error) {
	parsed, err := models.ParseView(view)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeInvalidView)
	}
	today, _ := s.today()
	filter = viewFilter(parsed, today, filter)
	if !showCompleted {
		filter.ExcludeCompleted = true
	}
	return s.List(ctx, filter)
}

// Overdue returns incomplete tasks whose deadline, or date when there is
// no deadline, falls before the start of today.
func (s *TaskService) Overdue(ctx context.Context) ([]api.TaskResponse, error) {
	today, startOfToday := s.today()
	candidates, err := s.store.ListTasks(ctx, store.ListFilter{ExcludeCompleted: true, DueBeforeDate: today})
	if err != nil {
		return nil, err
	}

	overdue := make([]models.Task, 0, len(candidates))
	for _, task := range candidates {
		if isOverdue(task, startOfToday, s.loc) {
			overdue = append(overdue, task)
		}
	}
	return s.assemble(ctx, overdue)
}

// Search matches q against name and description, ignoring case.
func (s *TaskService) Search(ctx context.Context, q string) ([]api.TaskResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, badRequestCode(fmt.Errorf("search query is required"), ErrCodeInvalidSearchQuery)
	}
	return s.List(ctx, store.ListFilter{Search: q})
}

// Deletions returns the deletion log, newest first.
func (s *TaskService) Deletions(ctx context.Context, limit int) ([]models.TaskDeletion, error) {
	deletions, err := s.store.ListTaskDeletions(ctx, limit)
	if err != nil {
		return nil, err
	}
	return orEmpty(deletions), nil
}

func (s *TaskService) ensureList(ctx context.Context, id int64) error {
	if id <= 0 {
		return badRequestCode(fmt.Errorf("invalid list_id"), ErrCodeInvalidList)
	}
	exists, err := s.store.ListExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return badRequestCode(fmt.Errorf("list %d does not exist", id), ErrCodeInvalidList)
	}
	return nil
}

// ensureParent checks that parentID exists and that linking childID under
// it does not form a cycle. childID is 0 for new tasks.
func (s *TaskService) ensureParent(ctx context.Context, parentID, childID int64) error {
	if parentID <= 0 {
		return badRequestCode(fmt.Errorf("invalid parent_task_id"), ErrCodeInvalidParentID)
	}
	if parentID == childID {
		return badRequestCode(fmt.Errorf("task cannot be its own parent"), ErrCodeInvalidParentID)
	}

	current := parentID
	for depth := 0; depth < maxParentDepth; depth++ {
		task, err := s.store.GetTask(ctx, current)
		if err != nil {
			return err
		}
		if task == nil {
			if current == parentID {
				return badRequestCode(fmt.Errorf("parent task %d does not exist", parentID), ErrCodeInvalidParentID)
			}
			return nil
		}
		if task.ParentTaskID == nil {
			return nil
		}
		if childID != 0 && *task.ParentTaskID == childID {
			return badRequestCode(fmt.Errorf("parent_task_id %d would create a cycle", parentID), ErrCodeInvalidParentID)
		}
		current = *task.ParentTaskID
	}
	return badRequestCode(fmt.Errorf("subtask nesting too deep"), ErrCodeInvalidParentID)
}

// resolveLabelIDs rejects duplicate and unknown label ids.
func (s *TaskService) resolveLabelIDs(ctx context.Context, ids []int64) ([]int64, error) {
	normalized, err := normalizeLabelIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return normalized, nil
	}
	missing, err := s.store.MissingLabelIDs(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		parts := make([]string, 0, len(missing))
		for _, id := range missing {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		return nil, badRequestCode(fmt.Errorf("unknown label ids: %s", strings.Join(parts, ", ")), ErrCodeInvalidLabel)
	}
	return normalized, nil
}
