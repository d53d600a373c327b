package server

import (
	"context"
	"testing"

	"taskly/internal/api"
	"taskly/internal/models"
	"taskly/internal/store"
)

func TestTaskLifecycleAcrossListsAndLabels(t *testing.T) {
	st := newTestStore(t)
	tasks := NewTaskService(st, newTestBlobs(t, 1<<20), discardLogger(), nil, fixedClock)
	lists := NewListService(st, fixedClock)
	labels := NewLabelService(st, fixedClock)
	ctx := context.Background()

	garden, err := lists.Create(ctx, api.ListCreateRequest{Name: "Garden", Emoji: "🌱"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	weekend, err := labels.Create(ctx, api.LabelCreateRequest{Name: "weekend"})
	if err != nil {
		t.Fatalf("create label: %v", err)
	}

	parent := mustCreateTask(t, tasks, api.TaskCreateRequest{
		Name:     "Plant tomatoes",
		ListID:   &garden.ID,
		Date:     "2026-05-16",
		LabelIDs: []int64{weekend.ID},
	})
	child := mustCreateTask(t, tasks, api.TaskCreateRequest{Name: "Buy seedlings", ParentTaskID: &parent.ID, ListID: &garden.ID})

	reloaded, err := tasks.Get(ctx, parent.ID)
	if err != nil {
		t.Fatalf("get parent: %v", err)
	}
	if len(reloaded.Subtasks) != 1 || reloaded.Subtasks[0].ID != child.ID {
		t.Fatalf("expected subtask assembled, got %+v", reloaded.Subtasks)
	}
	if reloaded.List == nil || reloaded.List.Name != "Garden" || len(reloaded.Labels) != 1 {
		t.Fatalf("expected list and label assembled, got list=%+v labels=%+v", reloaded.List, reloaded.Labels)
	}

	subtasksOnly, err := tasks.List(ctx, store.ListFilter{ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("list subtasks: %v", err)
	}
	assertTaskNames(t, subtasksOnly, []string{"Buy seedlings"})

	if _, err := tasks.Update(ctx, api.TaskUpdateRequest{ID: child.ID, Status: ptr("completed"), ActualMinutes: api.Some(20)}); err != nil {
		t.Fatalf("complete child: %v", err)
	}

	gardenCount, err := lists.Get(ctx, garden.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if gardenCount.TaskCount != 2 {
		t.Fatalf("expected two tasks in Garden, got %d", gardenCount.TaskCount)
	}

	if err := lists.Delete(ctx, garden.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	moved, err := tasks.Get(ctx, parent.ID)
	if err != nil {
		t.Fatalf("get moved: %v", err)
	}
	if moved.ListID != models.DefaultListID {
		t.Fatalf("expected task moved to default list, got %d", moved.ListID)
	}

	if err := labels.Delete(ctx, weekend.ID); err != nil {
		t.Fatalf("delete label: %v", err)
	}
	unlabeled, err := tasks.Get(ctx, parent.ID)
	if err != nil {
		t.Fatalf("get unlabeled: %v", err)
	}
	if len(unlabeled.Labels) != 0 {
		t.Fatalf("expected label detached, got %+v", unlabeled.Labels)
	}

	if err := tasks.Delete(ctx, parent.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}
	survivor, err := tasks.Get(ctx, child.ID)
	if err != nil {
		t.Fatalf("get survivor: %v", err)
	}
	if survivor.ParentTaskID != nil || survivor.Status != models.StatusCompleted || survivor.CompletedAt == nil {
		t.Fatalf("expected completed orphaned subtask, got %+v", survivor.Task)
	}
	if survivor.ActualMinutes == nil || *survivor.ActualMinutes != 20 {
		t.Fatalf("expected actual minutes kept, got %v", survivor.ActualMinutes)
	}
}

func TestTaskServiceGetMissingReturnsNotFound(t *testing.T) {
	svc, _ := newTaskServiceForTest(t)
	_, err := svc.Get(context.Background(), 12)
	assertAPIErrorStatusAndCode(t, err, 404, ErrCodeTaskNotFound)
}

func TestTaskServiceListEmptyIsNotNil(t *testing.T) {
	svc, _ := newTaskServiceForTest(t)
	got, err := svc.List(context.Background(), store.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func assertAPIErrorStatusAndCode(t *testing.T, err error, wantStatus, wantCode int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := httpStatusFromError(err); got != wantStatus {
		t.Fatalf("expected status %d, got %d (%v)", wantStatus, got, err)
	}
	if got := apiErrorCode(err); got != wantCode {
		t.Fatalf("expected error_code %d, got %d (%v)", wantCode, got, err)
	}
}
