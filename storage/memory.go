package storage

import (
	"context"
	"sort"

	"github.com/arthur-debert/dispatchgrid/internal/validation"
	"github.com/arthur-debert/dispatchgrid/types"
)

// MemoryStore keeps layouts in process memory
type MemoryStore struct {
	locks  *LockManager
	data   map[string]types.LayoutState
	closed bool
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks: NewLockManager(),
		data:  make(map[string]types.LayoutState),
	}
}

// Load implements Store.Load
func (s *MemoryStore) Load(_ context.Context, key string) (*types.LayoutState, error) {
	if err := validation.ValidateStorageKey(key); err != nil {
		return nil, err
	}
	return Query(s.locks, ReadOperation, func() (*types.LayoutState, error) {
		if s.closed {
			return nil, ErrClosed
		}
		state, ok := s.data[key]
		if !ok {
			return nil, nil
		}
		out := state.Clone()
		return &out, nil
	})
}

// Save implements Store.Save
func (s *MemoryStore) Save(_ context.Context, key string, state types.LayoutState) error {
	if err := validation.ValidateStorageKey(key); err != nil {
		return err
	}
	return s.locks.Execute(WriteOperation, func() error {
		if s.closed {
			return ErrClosed
		}
		s.data[key] = state.Clone()
		return nil
	})
}

// Keys returns every stored key
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	return Query(s.locks, ReadOperation, func() ([]string, error) {
		if s.closed {
			return nil, ErrClosed
		}
		return sortedKeys(s.data), nil
	})
}

// Close implements Store.Close
func (s *MemoryStore) Close() error {
	return s.locks.Execute(WriteOperation, func() error {
		s.closed = true
		return nil
	})
}

func sortedKeys(m map[string]types.LayoutState) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
