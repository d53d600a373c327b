package server

import (
	"time"

	"taskly/internal/models"
	"taskly/internal/store"
)

const next7DaysSpan = 7

// today returns the service date in the configured zone and the instant it begins.
func (s *TaskService) today() (string, time.Time) {
	local := s.now().In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start.Format(models.DateLayout), start
}

// viewFilter replaces the date predicates of filter with the window of view.
func viewFilter(view models.View, today string, filter store.ListFilter) store.ListFilter {
	switch view {
	case models.ViewToday:
		filter.Date, filter.StartDate, filter.EndDate = today, "", ""
	case models.ViewNext7Days:
		filter.Date, filter.StartDate, filter.EndDate = "", today, addDays(today, next7DaysSpan)
	case models.ViewUpcoming:
		filter.Date, filter.StartDate, filter.EndDate = "", today, ""
	}
	return filter
}

func addDays(date string, days int) string {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return day.AddDate(0, 0, days).Format(models.DateLayout)
}

func isOverdue(task models.Task, startOfToday time.Time, loc *time.Location) bool {
	if task.Status == models.StatusCompleted {
		return false
	}
	due, ok := task.DueAt(loc)
	return ok && due.Before(startOfToday)
}
