package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/trymedating/trymed/pkg/errors"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileStore keeps chat attachments on local disk under a single root.
// Paths handed back to callers are root-relative and namespaced by
// connection id plus a millisecond timestamp, mirroring how attachments
// were namespaced in object storage.
type FileStore struct {
	root    string
	maxSize int64
}

func NewFileStore(root string, maxSize int64) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create upload root")
	}
	return &FileStore{root: root, maxSize: maxSize}, nil
}

// Save streams an attachment to disk and returns its store path. Writes past
// the size limit abort and clean up the partial file.
func (s *FileStore) Save(connectionID uint, name string, r io.Reader) (string, int64, error) {
	rel := path.Join("chat",
		fmt.Sprintf("%d", connectionID),
		fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeName(name)))

	abs, err := s.resolve(rel)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create attachment dir")
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create attachment file")
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(abs)
		return "", 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to write attachment")
	}
	if written > s.maxSize {
		os.Remove(abs)
		return "", 0, errors.New(errors.ErrCodeValidationFailed, "attachment exceeds size limit")
	}

	return rel, written, nil
}

// Open returns a reader for a stored attachment
func (s *FileStore) Open(rel string) (io.ReadCloser, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "attachment not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to open attachment")
	}
	return f, nil
}

// Remove deletes a stored attachment; missing files are not an error
func (s *FileStore) Remove(rel string) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to remove attachment")
	}
	return nil
}

// resolve maps a store path onto the root, refusing anything that would
// escape it.
func (s *FileStore) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errors.New(errors.ErrCodeValidationFailed, "invalid attachment path")
	}
	return filepath.Join(s.root, clean), nil
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	if len(name) > 120 {
		name = name[len(name)-120:]
	}
	return name
}
