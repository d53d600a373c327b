package store

import (
	"context"
	"testing"
	"time"

	"taskly/internal/models"
)

func TestLoadTaskRelationsGroupsPerTask(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	list := createTestList(t, st, "Project")
	b := createTestLabel(t, st, "beta")
	a := createTestLabel(t, st, "alpha")

	first := createTestTask(t, st, &models.Task{Name: "first", ListID: list.ID, CreatedAt: base}, b.ID, a.ID)
	second := createTestTask(t, st, &models.Task{Name: "second", CreatedAt: base})
	subLate := createTestTask(t, st, &models.Task{Name: "sub late", ParentTaskID: &first.ID, CreatedAt: base.Add(2 * time.Hour)})
	subEarly := createTestTask(t, st, &models.Task{Name: "sub early", ParentTaskID: &first.ID, CreatedAt: base.Add(time.Hour)})

	rel, err := st.LoadTaskRelations(ctx, []models.Task{*first, *second, *first})
	if err != nil {
		t.Fatalf("load relations: %v", err)
	}

	if rel.Lists[list.ID].Name != "Project" || rel.Lists[models.DefaultListID].ID != models.DefaultListID {
		t.Fatalf("expected both lists loaded, got %+v", rel.Lists)
	}

	labels := rel.Labels[first.ID]
	if len(labels) != 2 || labels[0].Name != "alpha" || labels[1].Name != "beta" {
		t.Fatalf("expected labels ordered by name, got %+v", labels)
	}
	if len(rel.Labels[second.ID]) != 0 {
		t.Fatalf("expected no labels on second, got %+v", rel.Labels[second.ID])
	}

	subs := rel.Subtasks[first.ID]
	if len(subs) != 2 || subs[0].ID != subEarly.ID || subs[1].ID != subLate.ID {
		t.Fatalf("expected subtasks oldest first, got %+v", subs)
	}

	if len(rel.Activity[first.ID]) != 1 || len(rel.Activity[second.ID]) != 1 {
		t.Fatalf("expected one created entry per task, got %+v", rel.Activity)
	}
}

func TestLoadTaskRelationsManyTasksAcrossChunks(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	label := createTestLabel(t, st, "bulk")

	total := inChunkSize + 7
	tasks := make([]models.Task, 0, total)
	for i := 0; i < total; i++ {
		task := createTestTask(t, st, &models.Task{Name: "bulk task"}, label.ID)
		tasks = append(tasks, *task)
	}

	rel, err := st.LoadTaskRelations(ctx, tasks)
	if err != nil {
		t.Fatalf("load relations: %v", err)
	}
	if len(rel.Labels) != total {
		t.Fatalf("expected labels for %d tasks, got %d", total, len(rel.Labels))
	}
}

func TestLoadTaskRelationsEmpty(t *testing.T) {
	st := testStore(t)
	rel, err := st.LoadTaskRelations(context.Background(), nil)
	if err != nil {
		t.Fatalf("load relations: %v", err)
	}
	if len(rel.Labels) != 0 || len(rel.Lists) != 0 {
		t.Fatalf("expected empty relations, got %+v", rel)
	}
}
