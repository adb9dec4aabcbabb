package types

// Engine defaults. Hosts override them through grid options.
const (
	// MinColumnWidth is the smallest width a resize can produce, in pixels
	MinColumnWidth = 60

	// DefaultColumnWidth is used when a column has neither an override nor a hint
	DefaultColumnWidth = 150

	// DefaultPageSize is the initial page size of a new table
	DefaultPageSize = 25

	// DefaultLocale drives collation of string values
	DefaultLocale = "en"
)

// GridConfig collects the tunables of one table instance
type GridConfig struct {
	MinColumnWidth     int
	DefaultColumnWidth int
	PageSize           int
	Locale             string
}

// DefaultGridConfig returns the engine defaults
func DefaultGridConfig() GridConfig {
	return GridConfig{
		MinColumnWidth:     MinColumnWidth,
		DefaultColumnWidth: DefaultColumnWidth,
		PageSize:           DefaultPageSize,
		Locale:             DefaultLocale,
	}
}

// Normalized fills zero or invalid fields with defaults
func (c GridConfig) Normalized() GridConfig {
	d := DefaultGridConfig()
	if c.MinColumnWidth <= 0 {
		c.MinColumnWidth = d.MinColumnWidth
	}
	if c.DefaultColumnWidth <= 0 {
		c.DefaultColumnWidth = d.DefaultColumnWidth
	}
	if c.DefaultColumnWidth < c.MinColumnWidth {
		c.DefaultColumnWidth = c.MinColumnWidth
	}
	if c.PageSize < 0 {
		c.PageSize = d.PageSize
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	return c
}
