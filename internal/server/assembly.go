package server

import (
	"context"

	"taskly/internal/api"
	"taskly/internal/models"
)

// assemble attaches list, labels, subtasks, reminders, attachments and
// activity to tasks with one query per related table. Order is preserved.
func (s *TaskService) assemble(ctx context.Context, tasks []models.Task) ([]api.TaskResponse, error) {
	out := make([]api.TaskResponse, 0, len(tasks))
	if len(tasks) == 0 {
		return out, nil
	}

	rel, err := s.store.LoadTaskRelations(ctx, tasks)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		resp := api.TaskResponse{
			Task:         task,
			Labels:       orEmpty(rel.Labels[task.ID]),
			Subtasks:     orEmpty(rel.Subtasks[task.ID]),
			Reminders:    orEmpty(rel.Reminders[task.ID]),
			Attachments:  orEmpty(rel.Attachments[task.ID]),
			ActivityLogs: orEmpty(rel.Activity[task.ID]),
		}
		if list, ok := rel.Lists[task.ListID]; ok {
			resp.List = &list
		}
		out = append(out, resp)
	}
	return out, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
