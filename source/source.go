// Package source loads table rows from data files for the gridctl CLI.
//
// Rows are generic records: JSON objects, JSON lines, YAML documents or CSV
// lines decoded into map[string]any. Nested objects stay nested and are
// addressed with dotted column keys ("address.city").
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one row
type Record = map[string]any

// Table is a decoded row file
type Table struct {
	Records []Record

	// Columns lists every leaf key in order of first appearance in the
	// file. Keys of nested objects are joined with dots.
	Columns []string
}

// Format is the encoding of a row file
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ErrUnknownFormat is returned for files whose format cannot be determined
var ErrUnknownFormat = errors.New("source: unknown format")

// DetectFormat picks a format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ReadFile loads every record of path, detecting the format from the
// extension
func ReadFile(path string) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	table, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}

// Decode reads records in the given format
func Decode(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatJSONL:
		return decodeJSONLines(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatCSV:
		return decodeCSV(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// decodeJSON accepts a top-level array of objects or a single object
func decodeJSON(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Table{Records: []Record{}, Columns: []string{}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []Record
	if data[0] == '{' {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("invalid JSON object: %w", err)
		}
		records = []Record{rec}
	} else if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	order := newKeyOrder()
	if err := order.walkJSON(json.NewDecoder(bytes.NewReader(data))); err != nil {
		return nil, err
	}
	return &Table{Records: nonNil(records), Columns: order.keys}, nil
}

func decodeJSONLines(r io.Reader) (*Table, error) {
	records := []Record{}
	order := newKeyOrder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := order.walkJSON(json.NewDecoder(bytes.NewReader(text))); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Table{Records: records, Columns: order.keys}, nil
}

// decodeYAML accepts a sequence of mappings per document, or one mapping
// per document in a multi-document stream
func decodeYAML(r io.Reader) (*Table, error) {
	records := []Record{}
	order := newKeyOrder()
	dec := yaml.NewDecoder(r)
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return &Table{Records: records, Columns: order.keys}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if len(node.Content) == 0 {
			continue
		}

		root := node.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			var batch []Record
			if err := root.Decode(&batch); err != nil {
				return nil, fmt.Errorf("invalid YAML sequence: %w", err)
			}
			for _, item := range root.Content {
				order.walkYAML(item, "")
			}
			records = append(records, batch...)
		case yaml.MappingNode:
			var rec Record
			if err := root.Decode(&rec); err != nil {
				return nil, fmt.Errorf("invalid YAML mapping: %w", err)
			}
			order.walkYAML(root, "")
			records = append(records, rec)
		default:
			return nil, fmt.Errorf("invalid YAML: expected a sequence or mapping at line %d", root.Line)
		}
	}
}

// decodeCSV treats the first line as the header. Every cell stays a string.
func decodeCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{Records: []Record{}, Columns: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header: %w", err)
	}

	order := newKeyOrder()
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		if header[i] != "" {
			order.add(header[i])
		}
	}

	records := []Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return &Table{Records: records, Columns: order.keys}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV: %w", err)
		}
		rec := make(Record, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = nil
			}
		}
		records = append(records, rec)
	}
}

func nonNil(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return records
}
