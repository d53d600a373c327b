package api

import "taskly/internal/models"

// ListCreateRequest defines the payload for creating a list.
type ListCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Emoji string `json:"emoji,omitempty"`
}

// ListUpdateRequest is a partial list update.
type ListUpdateRequest struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Emoji *string `json:"emoji,omitempty"`
}

// ListResponse is a list with its task count.
type ListResponse struct {
	models.List
	TaskCount int `json:"task_count"`
}

// LabelCreateRequest defines the payload for creating a label.
type LabelCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// LabelUpdateRequest is a partial label update.
type LabelUpdateRequest struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// LabelResponse is a label with the number of tasks tagged with it.
type LabelResponse struct {
	models.Label
	TaskCount int `json:"task_count"`
}
