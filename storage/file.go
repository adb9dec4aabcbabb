package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dispatchgrid/internal/validation"
	"github.com/arthur-debert/dispatchgrid/types"
)

// Format is the encoding of a layout document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml and .yml files and JSON otherwise
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ErrLocked is returned when another process holds the document lock
var ErrLocked = errors.New("failed to acquire lock")

// Constants for file locking
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// FileStore keeps every layout in one document file. Each call reads the
// file under an exclusive file lock, so several processes can share it;
// the last write wins.
type FileStore struct {
	path   string
	format Format

	fs       FileSystem
	newLock  LockFunc
	fileLock FileLock
	locks    *LockManager
	timeFunc func() time.Time

	closed bool
}

// FileOption configures a FileStore
type FileOption func(*FileStore)

// WithFileSystem replaces the os-backed file access
func WithFileSystem(fs FileSystem) FileOption {
	return func(s *FileStore) {
		s.fs = fs
	}
}

// WithLockFunc replaces the flock-backed document lock
func WithLockFunc(fn LockFunc) FileOption {
	return func(s *FileStore) {
		s.newLock = fn
	}
}

// WithTimeFunc sets the clock used for the document's updated_at
func WithTimeFunc(fn func() time.Time) FileOption {
	return func(s *FileStore) {
		s.timeFunc = fn
	}
}

// WithFormat overrides the format derived from the file extension
func WithFormat(format Format) FileOption {
	return func(s *FileStore) {
		s.format = format
	}
}

// NewFileStore creates a store backed by path. The parent directory is
// created if needed; the file itself appears on the first Save.
func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: file path is empty")
	}

	s := &FileStore{
		path:     path,
		format:   FormatForPath(path),
		locks:    NewLockManager(),
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = osFS{}
	}
	if s.newLock == nil {
		s.newLock = flockAt
	}
	if s.format != FormatJSON && s.format != FormatYAML {
		return nil, fmt.Errorf("storage: unsupported format %q", s.format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	s.fileLock = s.newLock(path + ".lock")
	return s, nil
}

// Path returns the document path
func (s *FileStore) Path() string { return s.path }

// Format returns the document encoding
func (s *FileStore) Format() Format { return s.format }

// Load implements Store.Load
func (s *FileStore) Load(ctx context.Context, key string) (*types.LayoutState, error) {
	if err := validation.ValidateStorageKey(key); err != nil {
		return nil, err
	}
	return Query(s.locks, ReadOperation, func() (*types.LayoutState, error) {
		if s.closed {
			return nil, ErrClosed
		}
		var doc *Document
		err := s.withFileLock(ctx, func() error {
			var err error
			doc, err = s.read()
			return err
		})
		if err != nil {
			return nil, err
		}
		state, ok := doc.Layouts[key]
		if !ok {
			return nil, nil
		}
		out := state.Clone()
		return &out, nil
	})
}

// Save implements Store.Save
func (s *FileStore) Save(ctx context.Context, key string, state types.LayoutState) error {
	if err := validation.ValidateStorageKey(key); err != nil {
		return err
	}
	return s.locks.Execute(WriteOperation, func() error {
		if s.closed {
			return ErrClosed
		}
		return s.withFileLock(ctx, func() error {
			doc, err := s.read()
			if err != nil {
				return err
			}
			doc.Layouts[key] = state.Clone()
			doc.UpdatedAt = s.timeFunc().UTC()
			return s.write(doc)
		})
	})
}

// Keys returns every stored key
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	return Query(s.locks, ReadOperation, func() ([]string, error) {
		if s.closed {
			return nil, ErrClosed
		}
		var doc *Document
		if err := s.withFileLock(ctx, func() error {
			var err error
			doc, err = s.read()
			return err
		}); err != nil {
			return nil, err
		}
		return sortedKeys(doc.Layouts), nil
	})
}

// Close releases the store. The lock file stays on disk: removing it while
// another process holds a flock on it would let a third process lock a
// fresh inode alongside it.
func (s *FileStore) Close() error {
	return s.locks.Execute(WriteOperation, func() error {
		if s.closed {
			return nil
		}
		s.closed = true
		return nil
	})
}

func (s *FileStore) withFileLock(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()
	return fn()
}

// acquireLock attempts to acquire the file lock with retry logic
func (s *FileStore) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLocked, err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrLocked, lockMaxRetries)
}

// read loads the document. A missing or empty file is an empty document.
// The caller holds the file lock.
func (s *FileStore) read() (*Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return newDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return newDocument(), nil
	}

	doc := newDocument()
	switch s.format {
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	default:
		err = json.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", strings.ToUpper(string(s.format)), err)
	}
	if doc.Layouts == nil {
		doc.Layouts = make(map[string]types.LayoutState)
	}
	return doc, nil
}

// write replaces the document atomically: temp file, then rename.
// The caller holds the file lock.
func (s *FileStore) write(doc *Document) error {
	doc.Version = DocumentVersion

	var data []byte
	var err error
	switch s.format {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", strings.ToUpper(string(s.format)), err)
	}

	tmpFile := s.path + ".tmp"
	if err := s.fs.WriteFile(tmpFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := s.fs.Rename(tmpFile, s.path); err != nil {
		_ = s.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
