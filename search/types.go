// Package search implements the grid's free-text query: a trimmed,
// case-insensitive substring match over the visible cells of a row, plus
// highlighting of the matched text for renderers.
package search

// Default highlight markers: markdown-style bold
const (
	DefaultStartMarker = "**"
	DefaultEndMarker   = "**"
)

// MatchInfo locates one match inside a cell, in byte offsets of the
// original text
type MatchInfo struct {
	Start int
	End   int
	Text  string
}

// HighlightOptions configures Highlight
type HighlightOptions struct {
	// StartMarker is inserted before every match. Empty uses DefaultStartMarker.
	StartMarker string

	// EndMarker is inserted after every match. Empty uses DefaultEndMarker.
	EndMarker string
}
