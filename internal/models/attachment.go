package models

import "time"

// Attachment is a file owned by a task. FilePath is the blob store key.
type Attachment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"file_path"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Reminder is a point-in-time notification owned by a task.
type Reminder struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	RemindAt  time.Time `json:"remind_at"`
	Message   string    `json:"message,omitempty"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}
