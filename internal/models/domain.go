package models

import (
	"fmt"
	"strings"
)

// TaskStatus defines allowed lifecycle states for tasks.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Priority defines the allowed task priorities.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RecurringType names a recurrence schedule. Recurrence is stored, never expanded.
type RecurringType string

const (
	RecurringNone     RecurringType = "none"
	RecurringDaily    RecurringType = "daily"
	RecurringWeekly   RecurringType = "weekly"
	RecurringWeekdays RecurringType = "weekdays"
	RecurringMonthly  RecurringType = "monthly"
	RecurringYearly   RecurringType = "yearly"
	RecurringCustom   RecurringType = "custom"
)

// View names a date-window predicate over tasks.
type View string

const (
	ViewToday     View = "today"
	ViewNext7Days View = "next7days"
	ViewUpcoming  View = "upcoming"
	ViewAll       View = "all"
)

const (
	// DefaultListID is the protected Inbox list.
	DefaultListID int64 = 1

	DefaultListName  = "Inbox"
	DefaultListColor = "#3b82f6"
	DefaultListEmoji = "📋"
	InboxEmoji       = "📥"

	DefaultLabelColor = "#10b981"
	DefaultLabelIcon  = "🏷️"

	// DateLayout is the storage and wire format of Task.Date.
	DateLayout = "2006-01-02"

	ActionCreated = "created"
)

var validTaskStatuses = map[TaskStatus]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusCompleted:  {},
}

var validPriorities = map[Priority]struct{}{
	PriorityNone:   {},
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}

var validRecurringTypes = map[RecurringType]struct{}{
	RecurringNone:     {},
	RecurringDaily:    {},
	RecurringWeekly:   {},
	RecurringWeekdays: {},
	RecurringMonthly:  {},
	RecurringYearly:   {},
	RecurringCustom:   {},
}

var validViews = map[View]struct{}{
	ViewToday:     {},
	ViewNext7Days: {},
	ViewUpcoming:  {},
	ViewAll:       {},
}

func IsValidTaskStatus(status TaskStatus) bool {
	_, ok := validTaskStatuses[status]
	return ok
}

func IsValidPriority(priority Priority) bool {
	_, ok := validPriorities[priority]
	return ok
}

func IsValidRecurringType(value RecurringType) bool {
	_, ok := validRecurringTypes[value]
	return ok
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	value := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidTaskStatus(value) {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return value, nil
}

func ParsePriority(raw string) (Priority, error) {
	value := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("priority is required")
	}
	if !IsValidPriority(value) {
		return "", fmt.Errorf("invalid priority: %s", value)
	}
	return value, nil
}

// ParseRecurringType accepts an empty value as RecurringNone.
func ParseRecurringType(raw string) (RecurringType, error) {
	value := RecurringType(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return RecurringNone, nil
	}
	if !IsValidRecurringType(value) {
		return "", fmt.Errorf("invalid recurring_type: %s", value)
	}
	return value, nil
}

func ParseView(raw string) (View, error) {
	value := View(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return ViewAll, nil
	}
	if _, ok := validViews[value]; !ok {
		return "", fmt.Errorf("invalid view: %s", value)
	}
	return value, nil
}
