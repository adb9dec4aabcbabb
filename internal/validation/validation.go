// Package validation checks grid configuration before any state is built
// from it.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrEmptyKey is returned for a column with a blank key
	ErrEmptyKey = errors.New("column key cannot be empty")

	// ErrDuplicateKey is returned when two columns share a key
	ErrDuplicateKey = errors.New("duplicate column key")

	// ErrInvalidStorageKey is returned for unusable layout storage keys
	ErrInvalidStorageKey = errors.New("invalid storage key")
)

// maxStorageKeyLength bounds storage keys so they fit file names and
// indexed SQL columns
const maxStorageKeyLength = 200

// ValidateColumnKeys checks that every key is non-blank and unique.
// A duplicate key would break the layout order permutation.
func ValidateColumnKeys(keys []string) error {
	seen := make(map[string]int, len(keys))
	for i, key := range keys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("column %d: %w", i, ErrEmptyKey)
		}
		if first, exists := seen[key]; exists {
			return fmt.Errorf("%w: %q (columns %d and %d)", ErrDuplicateKey, key, first, i)
		}
		seen[key] = i
	}
	return nil
}

// ValidateStorageKey checks a layout storage key
func ValidateStorageKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidStorageKey)
	}
	if len(key) > maxStorageKeyLength {
		return fmt.Errorf("%w: %d bytes (maximum %d)", ErrInvalidStorageKey, len(key), maxStorageKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", ErrInvalidStorageKey, key)
		}
	}
	return nil
}
