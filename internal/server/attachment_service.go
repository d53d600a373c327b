package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"taskly/internal/blobstore"
	"taskly/internal/models"
	"taskly/internal/store"
)

const fallbackAttachmentMediaType = "application/octet-stream"

// AttachmentService stores attachment bytes in the blob store and their
// metadata in the task store.
type AttachmentService struct {
	tasks       store.TaskStore
	attachments store.AttachmentStore
	blobs       blobstore.Store
	logger      *slog.Logger
	now         func() time.Time
}

// AttachmentContent is an open attachment stream with its metadata.
type AttachmentContent struct {
	Reader    io.ReadCloser
	SizeBytes int64
	MediaType string
	Filename  string
}

// NewAttachmentService constructs an AttachmentService.
func NewAttachmentService(tasks store.TaskStore, attachments store.AttachmentStore, blobs blobstore.Store, logger *slog.Logger, now func() time.Time) *AttachmentService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &AttachmentService{tasks: tasks, attachments: attachments, blobs: blobs, logger: logger, now: now}
}

// Add stores content and records it as an attachment of taskID. The
// declared media type wins unless it is empty or generic, then the sniffed
// type is used.
func (s *AttachmentService) Add(ctx context.Context, taskID int64, filename, declaredType string, content io.Reader) (models.Attachment, error) {
	var zero models.Attachment
	if err := s.configured(); err != nil {
		return zero, err
	}
	if content == nil {
		return zero, badRequestCode(fmt.Errorf("file is required"), ErrCodeMissingRequired)
	}

	filename = cleanFilename(filename)
	if filename == "" {
		return zero, badRequestCode(fmt.Errorf("filename is required"), ErrCodeMissingRequired)
	}
	declared, err := normalizeMediaType(declaredType)
	if err != nil {
		return zero, err
	}

	exists, err := s.tasks.TaskExists(ctx, taskID)
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, notFound(fmt.Errorf("task %d not found", taskID))
	}

	put, err := s.blobs.Put(ctx, content)
	if err != nil {
		if errors.Is(err, blobstore.ErrTooLarge) {
			return zero, badRequestCode(err, ErrCodeRequestTooLarge)
		}
		return zero, blobFailure(err)
	}

	mediaType := declared
	if mediaType == "" || mediaType == fallbackAttachmentMediaType {
		if sniffed, err := normalizeMediaType(put.SniffedType); err == nil && sniffed != "" {
			mediaType = sniffed
		}
	}
	if mediaType == "" {
		mediaType = fallbackAttachmentMediaType
	}

	attachment := &models.Attachment{
		TaskID:    taskID,
		Filename:  filename,
		FilePath:  put.Key,
		FileSize:  put.Size,
		MimeType:  mediaType,
		CreatedAt: s.now().UTC(),
	}
	if err := s.attachments.CreateAttachment(ctx, attachment); err != nil {
		if releaseErr := releaseBlob(ctx, s.attachments, s.blobs, put.Key); releaseErr != nil {
			s.logger.Warn("release blob after failed attachment insert", "key", put.Key, "error", releaseErr)
		}
		return zero, err
	}
	return *attachment, nil
}

// Open returns the attachment bytes. The caller closes Reader.
func (s *AttachmentService) Open(ctx context.Context, id int64) (*AttachmentContent, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	attachment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	reader, err := s.blobs.Open(ctx, attachment.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFoundCode(fmt.Errorf("attachment %d content is missing", id), ErrCodeAttachmentNotFound)
		}
		return nil, blobFailure(err)
	}
	return &AttachmentContent{
		Reader:    reader,
		SizeBytes: attachment.FileSize,
		MediaType: firstNonEmpty(attachment.MimeType, fallbackAttachmentMediaType),
		Filename:  attachment.Filename,
	}, nil
}

// Delete removes the attachment row, then its bytes when nothing else references them.
func (s *AttachmentService) Delete(ctx context.Context, id int64) error {
	if err := s.configured(); err != nil {
		return err
	}
	attachment, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	removed, err := s.attachments.DeleteAttachment(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundCode(fmt.Errorf("attachment %d not found", id), ErrCodeAttachmentNotFound)
	}
	if err := releaseBlob(ctx, s.attachments, s.blobs, attachment.FilePath); err != nil {
		s.logger.Warn("release attachment blob", "attachment_id", id, "key", attachment.FilePath, "error", err)
	}
	return nil
}

func (s *AttachmentService) get(ctx context.Context, id int64) (*models.Attachment, error) {
	attachment, err := s.attachments.GetAttachment(ctx, id)
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, notFoundCode(fmt.Errorf("attachment %d not found", id), ErrCodeAttachmentNotFound)
	}
	return attachment, nil
}

func (s *AttachmentService) configured() error {
	if s == nil || s.tasks == nil || s.attachments == nil || s.blobs == nil {
		return internalError(fmt.Errorf("attachment service is not configured"))
	}
	return nil
}

// releaseBlob deletes key from blobs once no attachment row references it.
func releaseBlob(ctx context.Context, attachments store.AttachmentStore, blobs blobstore.Store, key string) error {
	if blobs == nil || key == "" {
		return nil
	}
	refs, err := attachments.CountAttachmentsByPath(ctx, key)
	if err != nil {
		return err
	}
	if refs > 0 {
		return nil
	}
	return blobs.Delete(ctx, key)
}

func blobFailure(err error) error {
	return makeAPIError(http.StatusInternalServerError, "internal", ErrCodeBlobFailure, err)
}

// cleanFilename keeps the last path element of a client supplied name.
func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
