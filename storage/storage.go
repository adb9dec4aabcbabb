// Package storage persists grid layouts by storage key.
//
// Every backend satisfies grid.PreferenceStore. FileStore keeps all
// layouts of a user in one JSON or YAML document guarded by a cross-process
// file lock, SQLiteStore keeps them in an embedded database, MemoryStore
// serves tests and ephemeral sessions, and Async turns any of them into a
// fire-and-forget writer.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/arthur-debert/dispatchgrid/types"
)

// ErrClosed is returned by every operation on a closed store
var ErrClosed = errors.New("storage: store is closed")

// DocumentVersion is written into every layout document
const DocumentVersion = "1.0"

// Store loads and saves layouts. Load returns nil, nil for unknown keys.
type Store interface {
	Load(ctx context.Context, key string) (*types.LayoutState, error)
	Save(ctx context.Context, key string, state types.LayoutState) error
	Close() error
}

// Document is the on-disk shape of a FileStore
type Document struct {
	Version   string                       `json:"version" yaml:"version"`
	UpdatedAt time.Time                    `json:"updated_at" yaml:"updated_at"`
	Layouts   map[string]types.LayoutState `json:"layouts" yaml:"layouts"`
}

func newDocument() *Document {
	return &Document{
		Version: DocumentVersion,
		Layouts: make(map[string]types.LayoutState),
	}
}
