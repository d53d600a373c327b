package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"taskly/internal/api"
	"taskly/internal/format"
	"taskly/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeTaskList(tasks []api.TaskResponse) error {
	if len(tasks) == 0 {
		return writePlain("no tasks\n")
	}
	for _, task := range tasks {
		if err := writePlain("%s\n", formatTaskLine(task)); err != nil {
			return err
		}
	}
	return nil
}

func writeTaskDetail(task api.TaskResponse) error {
	lines := []string{
		fmt.Sprintf("id: %d", task.ID),
		fmt.Sprintf("name: %s", task.Name),
		fmt.Sprintf("status: %s", task.Status),
		fmt.Sprintf("priority: %s", task.Priority),
		fmt.Sprintf("list: %s", listName(task)),
		fmt.Sprintf("created_at: %s", formatTime(task.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(task.UpdatedAt)),
	}

	if task.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", task.Description))
	}
	if task.Date != "" {
		lines = append(lines, fmt.Sprintf("date: %s", task.Date))
	}
	if task.Deadline != nil {
		lines = append(lines, fmt.Sprintf("deadline: %s", formatTime(*task.Deadline)))
	}
	if task.EstimateMinutes != nil {
		lines = append(lines, fmt.Sprintf("estimate: %dm", *task.EstimateMinutes))
	}
	if task.ActualMinutes != nil {
		lines = append(lines, fmt.Sprintf("actual: %dm", *task.ActualMinutes))
	}
	if task.ParentTaskID != nil {
		lines = append(lines, fmt.Sprintf("parent: %d", *task.ParentTaskID))
	}
	if task.RecurringType != "" && task.RecurringType != string(models.RecurringNone) {
		lines = append(lines, fmt.Sprintf("recurring: %s", task.RecurringType))
	}
	if task.CompletedAt != nil {
		lines = append(lines, fmt.Sprintf("completed_at: %s", formatTime(*task.CompletedAt)))
	}
	if len(task.Labels) > 0 {
		lines = append(lines, fmt.Sprintf("labels: %s", strings.Join(labelNames(task.Labels), ", ")))
	}
	if len(task.Subtasks) > 0 {
		lines = append(lines, "subtasks:")
		for _, sub := range task.Subtasks {
			lines = append(lines, fmt.Sprintf("  %s #%d %s", statusGlyph(sub.Status), sub.ID, sub.Name))
		}
	}
	if len(task.Reminders) > 0 {
		lines = append(lines, "reminders:")
		for _, r := range task.Reminders {
			sent := ""
			if r.Sent {
				sent = " (sent)"
			}
			lines = append(lines, fmt.Sprintf("  #%d %s %s%s", r.ID, formatTime(r.RemindAt), r.Message, sent))
		}
	}
	if len(task.Attachments) > 0 {
		lines = append(lines, "attachments:")
		for _, a := range task.Attachments {
			lines = append(lines, fmt.Sprintf("  #%d %s (%s, %d bytes)", a.ID, a.Filename, a.MimeType, a.FileSize))
		}
	}
	if len(task.ActivityLogs) > 0 {
		lines = append(lines, "activity:")
		for _, entry := range task.ActivityLogs {
			lines = append(lines, "  "+formatActivity(entry))
		}
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatTaskLine(task api.TaskResponse) string {
	line := fmt.Sprintf("%s #%d [%s] %s", statusGlyph(task.Status), task.ID, task.Priority, task.Name)
	if due := dueText(task.Task); due != "" {
		line += " (" + due + ")"
	}
	if task.List != nil {
		line += " @" + task.List.Name
	}
	for _, name := range labelNames(task.Labels) {
		line += " +" + name
	}
	return line
}

func formatActivity(entry models.ActivityLog) string {
	text := fmt.Sprintf("%s %s", formatTime(entry.ChangedAt), entry.Action)
	if entry.OldValue != nil || entry.NewValue != nil {
		text += fmt.Sprintf(": %s -> %s", derefOr(entry.OldValue, "-"), derefOr(entry.NewValue, "-"))
	}
	return text
}

func statusGlyph(status models.TaskStatus) string {
	switch status {
	case models.StatusCompleted:
		return "●"
	case models.StatusInProgress:
		return "◐"
	default:
		return "○"
	}
}

func dueText(task models.Task) string {
	if task.Deadline != nil {
		return "due " + formatTime(*task.Deadline)
	}
	return task.Date
}

func listName(task api.TaskResponse) string {
	if task.List != nil {
		return task.List.Name
	}
	return fmt.Sprintf("#%d", task.ListID)
}

func labelNames(labels []models.Label) []string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.Name)
	}
	return names
}

func derefOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
