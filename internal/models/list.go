package models

import "time"

// List is a named container grouping tasks.
type List struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDefault reports whether l is the protected Inbox list.
func (l List) IsDefault() bool {
	return l.ID == DefaultListID
}

// Label is a reusable tag attachable to many tasks.
type Label struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}
