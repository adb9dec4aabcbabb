package storage

import (
	"sync"
)

// OperationType selects the lock an operation takes
type OperationType int

const (
	// ReadOperation takes a shared lock
	ReadOperation OperationType = iota

	// WriteOperation takes an exclusive lock
	WriteOperation
)

// LockManager serialises access to a store's in-process state with a
// read/write mutex, so readers proceed concurrently and writers alone.
type LockManager struct {
	mu sync.RWMutex
}

// NewLockManager creates a lock manager ready for use
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn under the lock matching opType
//
//	err := locks.Execute(ReadOperation, func() error {
//	    // safe to read here
//	    return nil
//	})
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}

// Query runs fn under the lock matching opType and returns its result
func Query[R any](lm *LockManager, opType OperationType, fn func() (R, error)) (R, error) {
	var result R
	err := lm.Execute(opType, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}
