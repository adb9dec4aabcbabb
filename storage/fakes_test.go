package storage

import (
	"context"
	"io/fs"
	"path"
	"sync"
	"time"
)

// memFS is an in-memory FileSystem with failure injection
type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	readErr, writeErr, renameErr, mkdirErr error

	// writes counts successful WriteFile calls
	writes int
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte), dirs: make(map[string]bool)}
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[name] = append([]byte(nil), data...)
	m.writes++
	return nil
}

func (m *memFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renameErr != nil {
		return m.renameErr
	}
	data, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	m.files[newpath] = data
	delete(m.files, oldpath)
	return nil
}

func (m *memFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

func (m *memFS) MkdirAll(dir string, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mkdirErr != nil {
		return m.mkdirErr
	}
	for ; dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
	return nil
}

func (m *memFS) put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
}

func (m *memFS) content(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

func (m *memFS) has(name string) bool {
	_, ok := m.content(name)
	return ok
}

func (m *memFS) hasDir(dir string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[dir]
}

// fakeLock never blocks: a lock held elsewhere reports false
type fakeLock struct {
	mu       sync.Mutex
	held     bool
	err      error
	attempts int
	unlocks  int
}

func (l *fakeLock) TryLockContext(context.Context, time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts++
	if l.err != nil {
		return false, l.err
	}
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocks++
	l.held = false
	return nil
}

func (l *fakeLock) isHeld() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// fakeLocks hands out one fakeLock per lock path
type fakeLocks struct {
	mu    sync.Mutex
	locks map[string]*fakeLock
}

func newFakeLocks() *fakeLocks {
	return &fakeLocks{locks: make(map[string]*fakeLock)}
}

func (f *fakeLocks) get(path string) *fakeLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[path]
	if !ok {
		l = &fakeLock{}
		f.locks[path] = l
	}
	return l
}

func (f *fakeLocks) lockFunc() LockFunc {
	return func(path string) FileLock { return f.get(path) }
}
