package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskly/internal/models"
)

const attachmentColumns = "id, task_id, filename, file_path, file_size, mime_type, created_at"

type attachmentRow struct {
	ID        int64  `db:"id"`
	TaskID    int64  `db:"task_id"`
	Filename  string `db:"filename"`
	FilePath  string `db:"file_path"`
	FileSize  int64  `db:"file_size"`
	MimeType  string `db:"mime_type"`
	CreatedAt string `db:"created_at"`
}

func (r attachmentRow) toModel() (models.Attachment, error) {
	attachment := models.Attachment{
		ID:       r.ID,
		TaskID:   r.TaskID,
		Filename: r.Filename,
		FilePath: r.FilePath,
		FileSize: r.FileSize,
		MimeType: r.MimeType,
	}
	var err error
	if attachment.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return attachment, fmt.Errorf("attachment %d created_at: %w", r.ID, err)
	}
	return attachment, nil
}

// CreateAttachment inserts one attachment row and sets attachment.ID.
func (s *Store) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	if attachment == nil {
		return fmt.Errorf("attachment is required")
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO attachments (task_id, filename, file_path, file_size, mime_type, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		attachment.TaskID, attachment.Filename, attachment.FilePath, attachment.FileSize, attachment.MimeType, formatTime(attachment.CreatedAt),
	)
	if err != nil {
		return err
	}
	attachment.ID, err = res.LastInsertId()
	return err
}

// GetAttachment returns one attachment, or nil when it does not exist.
func (s *Store) GetAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	var row attachmentRow
	err := s.db.GetContext(ctx, &row, "SELECT "+attachmentColumns+" FROM attachments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	attachment, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListAttachmentsByTask lists attachments for a task, newest first.
func (s *Store) ListAttachmentsByTask(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	grouped, err := s.ListAttachmentsForTasks(ctx, []int64{taskID})
	if err != nil {
		return nil, err
	}
	if attachments := grouped[taskID]; attachments != nil {
		return attachments, nil
	}
	return []models.Attachment{}, nil
}

// DeleteAttachment removes one attachment row.
func (s *Store) DeleteAttachment(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountAttachmentsByPath returns how many attachment rows reference a blob key.
func (s *Store) CountAttachmentsByPath(ctx context.Context, filePath string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM attachments WHERE file_path = ?", filePath)
	return count, err
}
