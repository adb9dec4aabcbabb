package storage

import (
	"fmt"
	"strings"
)

// Kind names a storage backend
type Kind string

const (
	KindMemory Kind = "memory"
	KindJSON   Kind = "json"
	KindYAML   Kind = "yaml"
	KindSQLite Kind = "sqlite"
)

// Kinds lists every backend Open accepts
func Kinds() []Kind {
	return []Kind{KindMemory, KindJSON, KindYAML, KindSQLite}
}

// ParseKind converts a config string into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("storage: unknown backend %q", s)
}

// Open creates the backend named by kind. path is ignored for memory.
func Open(kind Kind, path string, opts ...FileOption) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindJSON:
		return NewFileStore(path, append([]FileOption{WithFormat(FormatJSON)}, opts...)...)
	case KindYAML:
		return NewFileStore(path, append([]FileOption{WithFormat(FormatYAML)}, opts...)...)
	case KindSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", kind)
	}
}
