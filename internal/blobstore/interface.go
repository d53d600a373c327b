package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrTooLarge is returned by Put when the payload exceeds the configured limit.
var ErrTooLarge = errors.New("attachment exceeds size limit")

// PutResult describes stored attachment bytes.
type PutResult struct {
	Key    string
	Size   int64
	SHA256 string
	// SniffedType is the media type detected from the leading bytes.
	SniffedType string
}

// Store holds attachment bytes by key.
type Store interface {
	Put(ctx context.Context, r io.Reader) (PutResult, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

var _ Store = (*Disk)(nil)
