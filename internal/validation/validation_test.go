package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateColumnKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		wantErr error
	}{
		{"valid", []string{"id", "city", "status"}, nil},
		{"no columns", nil, nil},
		{"duplicate", []string{"id", "city", "id"}, ErrDuplicateKey},
		{"empty", []string{"id", ""}, ErrEmptyKey},
		{"blank", []string{"  "}, ErrEmptyKey},
		{"case differs", []string{"City", "city"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnKeys(tt.keys)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateColumnKeysNamesDuplicate(t *testing.T) {
	err := ValidateColumnKeys([]string{"id", "status", "status"})
	if err == nil || !strings.Contains(err.Error(), `"status"`) {
		t.Fatalf("expected error naming the duplicate key, got %v", err)
	}
}

func TestValidateStorageKey(t *testing.T) {
	valid := []string{"orders", "routing/candidates", "Vozila – popis"}
	for _, key := range valid {
		if err := ValidateStorageKey(key); err != nil {
			t.Errorf("ValidateStorageKey(%q) = %v", key, err)
		}
	}

	invalid := []string{"", "   ", "tab\there", strings.Repeat("k", maxStorageKeyLength+1)}
	for _, key := range invalid {
		if err := ValidateStorageKey(key); !errors.Is(err, ErrInvalidStorageKey) {
			t.Errorf("ValidateStorageKey(%q) = %v, want ErrInvalidStorageKey", key, err)
		}
	}
}
