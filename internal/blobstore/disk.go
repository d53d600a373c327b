package blobstore

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	keyPrefix = "sha256"
	sniffLen  = 512
)

// Disk keeps attachment bytes under root, addressed by their SHA-256 digest.
// Identical uploads share one file.
type Disk struct {
	root     string
	maxBytes int64
}

// NewDisk creates the directory tree at root. maxBytes <= 0 disables the size limit.
func NewDisk(root string, maxBytes int64) (*Disk, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("attachments dir is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "incoming"), 0o755); err != nil {
		return nil, fmt.Errorf("create attachments dir: %w", err)
	}
	return &Disk{root: abs, maxBytes: maxBytes}, nil
}

// Root returns the absolute directory holding the files.
func (d *Disk) Root() string { return d.root }

// Put copies r to a temp file while hashing it, then moves it to its digest key.
func (d *Disk) Put(ctx context.Context, r io.Reader) (PutResult, error) {
	var zero PutResult
	if d == nil {
		return zero, fmt.Errorf("attachment storage is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return zero, err
	}
	sniffed := http.DetectContentType(head)

	var src io.Reader = br
	if d.maxBytes > 0 {
		src = io.LimitReader(br, d.maxBytes+1)
	}

	tmp, err := os.CreateTemp(filepath.Join(d.root, "incoming"), "upload-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	discard := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), src)
	if err != nil {
		discard()
		return zero, err
	}
	if d.maxBytes > 0 && n > d.maxBytes {
		discard()
		return zero, ErrTooLarge
	}
	if err := tmp.Close(); err != nil {
		discard()
		return zero, err
	}

	digest := hex.EncodeToString(h.Sum(nil))
	key := keyForDigest(digest)
	result := PutResult{Key: key, Size: n, SHA256: digest, SniffedType: sniffed}

	dst := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		discard()
		return zero, err
	}
	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(tmpPath)
		return result, nil
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		// A concurrent upload of the same bytes may have won the rename.
		if _, statErr := os.Stat(dst); statErr == nil {
			_ = os.Remove(tmpPath)
			return result, nil
		}
		_ = os.Remove(tmpPath)
		return zero, err
	}
	return result, nil
}

// Open returns the stored bytes for key.
func (d *Disk) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := d.resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Exists reports whether a file is stored under key.
func (d *Disk) Exists(ctx context.Context, key string) (bool, error) {
	path, err := d.resolve(ctx, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes the file for key. Missing files are ignored.
func (d *Disk) Delete(ctx context.Context, key string) error {
	path, err := d.resolve(ctx, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func keyForDigest(digest string) string {
	return fmt.Sprintf("%s/%s/%s/%s", keyPrefix, digest[0:2], digest[2:4], digest)
}

func (d *Disk) resolve(ctx context.Context, key string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("attachment storage is not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("attachment key is required")
	}
	if !strings.HasPrefix(key, keyPrefix+"/") {
		return "", fmt.Errorf("invalid attachment key %q", key)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || strings.Contains(clean, string(filepath.Separator)+"..") {
		return "", fmt.Errorf("invalid attachment key %q", key)
	}
	return filepath.Join(d.root, clean), nil
}
