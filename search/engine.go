package search

import (
	"strings"
	"unicode/utf8"
)

// Matcher is a normalised global query. The zero value matches everything.
type Matcher struct {
	query string
}

// NewMatcher trims and lower-cases query
func NewMatcher(query string) Matcher {
	return Matcher{query: strings.ToLower(strings.TrimSpace(query))}
}

// Empty reports whether the matcher accepts every row
func (m Matcher) Empty() bool { return m.query == "" }

// Query returns the normalised query
func (m Matcher) Query() string { return m.query }

// Match reports whether value contains the query, ignoring case
func (m Matcher) Match(value string) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), m.query)
}

// MatchAny reports whether at least one value contains the query.
// An empty query matches even a row without values.
func (m Matcher) MatchAny(values []string) bool {
	if m.query == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), m.query) {
			return true
		}
	}
	return false
}

// FindMatches returns every non-overlapping, case-insensitive occurrence of
// the query in text. Offsets refer to text itself, so they stay valid when
// lower-casing changes byte lengths.
func (m Matcher) FindMatches(text string) []MatchInfo {
	if m.query == "" || text == "" {
		return nil
	}
	queryRunes := utf8.RuneCountInString(m.query)

	var matches []MatchInfo
	for start := 0; start < len(text); {
		end := advance(text, start, queryRunes)
		if end < 0 {
			break
		}
		if strings.EqualFold(text[start:end], m.query) {
			matches = append(matches, MatchInfo{Start: start, End: end, Text: text[start:end]})
			start = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return matches
}

// advance returns the byte offset n runes after start, or -1 past the end
func advance(text string, start, n int) int {
	pos := start
	for i := 0; i < n; i++ {
		if pos >= len(text) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return pos
}

// Highlight wraps every match of the query in markers
func (m Matcher) Highlight(text string, opts HighlightOptions) string {
	matches := m.FindMatches(text)
	if len(matches) == 0 {
		return text
	}

	startMarker := opts.StartMarker
	endMarker := opts.EndMarker
	if startMarker == "" {
		startMarker = DefaultStartMarker
	}
	if endMarker == "" {
		endMarker = DefaultEndMarker
	}

	var builder strings.Builder
	builder.Grow(len(text) + len(matches)*(len(startMarker)+len(endMarker)))
	lastEnd := 0
	for _, match := range matches {
		builder.WriteString(text[lastEnd:match.Start])
		builder.WriteString(startMarker)
		builder.WriteString(match.Text)
		builder.WriteString(endMarker)
		lastEnd = match.End
	}
	builder.WriteString(text[lastEnd:])

	return builder.String()
}

// Highlight is a convenience for NewMatcher(query).Highlight(text, opts)
func Highlight(text, query string, opts HighlightOptions) string {
	return NewMatcher(query).Highlight(text, opts)
}
