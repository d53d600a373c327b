package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskly/internal/models"
	"taskly/internal/store"
)

func newPerfTaskService(tb testing.TB, seedCount int) *TaskService {
	tb.Helper()
	st := newTestStore(tb)
	if seedCount > 0 {
		if err := seedPerfTasks(context.Background(), st, seedCount); err != nil {
			tb.Fatalf("seed perf tasks: %v", err)
		}
	}
	return NewTaskService(st, nil, discardLogger(), time.UTC, fixedClock)
}

// seedPerfTasks writes count tasks spread over three lists and two labels,
// with every tenth task nested under the previous one.
func seedPerfTasks(ctx context.Context, st *store.Store, count int) error {
	listIDs := []int64{models.DefaultListID}
	for _, name := range []string{"Work", "Home"} {
		list := &models.List{Name: name, Color: models.DefaultListColor, Emoji: models.DefaultListEmoji, CreatedAt: testNow, UpdatedAt: testNow}
		if err := st.CreateList(ctx, list); err != nil {
			return err
		}
		listIDs = append(listIDs, list.ID)
	}
	var labelIDs []int64
	for _, name := range []string{"focus", "errand"} {
		label := &models.Label{Name: name, Color: models.DefaultLabelColor, Icon: models.DefaultLabelIcon, CreatedAt: testNow}
		if err := st.CreateLabel(ctx, label); err != nil {
			return err
		}
		labelIDs = append(labelIDs, label.ID)
	}

	var previous int64
	for i := range count {
		task := &models.Task{
			Name:        fmt.Sprintf("Task %d", i),
			Description: fmt.Sprintf("routine chore number %d", i),
			ListID:      listIDs[i%len(listIDs)],
			Date:        testNow.AddDate(0, 0, i%21-10).Format(models.DateLayout),
			Priority:    []models.Priority{models.PriorityNone, models.PriorityLow, models.PriorityHigh}[i%3],
			Status:      []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted}[i%3],
			CreatedAt:   testNow.Add(time.Duration(i) * time.Second),
			UpdatedAt:   testNow.Add(time.Duration(i) * time.Second),
		}
		if i%5 == 0 {
			task.Description = fmt.Sprintf("renew the passport before trip %d", i)
		}
		if i%10 == 9 && previous != 0 {
			parent := previous
			task.ParentTaskID = &parent
		}
		if err := st.CreateTask(ctx, task, []int64{labelIDs[i%len(labelIDs)]}, "{}"); err != nil {
			return err
		}
		previous = task.ID
	}
	return nil
}
