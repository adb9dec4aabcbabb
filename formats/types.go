// Package formats renders a grid's filtered rows for export.
//
// Each Format turns a Table (header plus stringified cells) into bytes.
// Formats register themselves by name at init; the CLI picks one with
// --format.
package formats

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Header is one exported column
type Header struct {
	Key   string
	Label string
}

// Table is the exported view: visible columns in layout order and every
// filtered row in sort order
type Table struct {
	Headers []Header
	Rows    [][]string
}

// Title returns h's label, or its key when the label is empty
func (h Header) Title() string {
	if h.Label != "" {
		return h.Label
	}
	return h.Key
}

// Format defines one export encoding
type Format struct {
	// Name is the format identifier (alphanumeric, dashes, underscores, lowercase)
	Name string

	// Extension is the file extension including the dot (e.g., ".csv", ".md")
	Extension string

	// Render writes t to w
	Render func(w io.Writer, t Table) error
}

// registry holds all available formats
var registry = make(map[string]*Format)

// Register adds a new format to the registry
func Register(format *Format) error {
	// Validate format name (alphanumeric, dashes, underscores, lowercase)
	if !isValidFormatName(format.Name) {
		return fmt.Errorf("invalid format name %q: must be lowercase alphanumeric with dashes and underscores only", format.Name)
	}
	if format.Render == nil {
		return fmt.Errorf("format %q has no renderer", format.Name)
	}

	// Normalize extension
	if format.Extension != "" && !strings.HasPrefix(format.Extension, ".") {
		format.Extension = "." + format.Extension
	}

	if _, exists := registry[format.Name]; exists {
		return fmt.Errorf("format %q already registered", format.Name)
	}

	registry[format.Name] = format
	return nil
}

// Get returns a format by name
func Get(name string) (*Format, error) {
	format, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(List(), ", "))
	}
	return format, nil
}

// ForExtension returns the format writing files with ext, e.g. ".csv"
func ForExtension(ext string) (*Format, bool) {
	ext = strings.ToLower(ext)
	for _, name := range List() {
		if f := registry[name]; f.Extension == ext {
			return f, true
		}
	}
	return nil, false
}

// List returns all registered format names, sorted
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isValidFormatName checks if a format name is valid
func isValidFormatName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

func mustRegister(format *Format) {
	if err := Register(format); err != nil {
		panic(fmt.Sprintf("failed to register %s format: %v", format.Name, err))
	}
}
