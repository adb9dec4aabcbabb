package grid

import (
	"log/slog"
	"time"

	"github.com/arthur-debert/dispatchgrid/types"
)

// DefaultStoreTimeout bounds every preference store call
const DefaultStoreTimeout = 2 * time.Second

// Option configures a Controller
type Option func(*settings)

type settings struct {
	store        PreferenceStore
	storageKey   string
	logger       *slog.Logger
	config       types.GridConfig
	autoPrune    bool
	storeTimeout time.Duration
}

func defaultSettings() settings {
	return settings{
		logger:       slog.Default(),
		config:       types.DefaultGridConfig(),
		autoPrune:    true,
		storeTimeout: DefaultStoreTimeout,
	}
}

// WithPreferences persists the layout in store under storageKey
func WithPreferences(store PreferenceStore, storageKey string) Option {
	return func(s *settings) {
		s.store = store
		s.storageKey = storageKey
	}
}

// WithLogger sets the logger. Persistence fallbacks log at warn level,
// layout mutations at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPageSize sets the initial page size; 0 shows all rows
func WithPageSize(n int) Option {
	return func(s *settings) {
		s.config.PageSize = n
	}
}

// WithMinColumnWidth sets the resize floor in pixels
func WithMinColumnWidth(px int) Option {
	return func(s *settings) {
		s.config.MinColumnWidth = px
	}
}

// WithDefaultColumnWidth sets the width of columns without a hint
func WithDefaultColumnWidth(px int) Option {
	return func(s *settings) {
		s.config.DefaultColumnWidth = px
	}
}

// WithLocale sets the BCP 47 tag used to collate string values
func WithLocale(tag string) Option {
	return func(s *settings) {
		s.config.Locale = tag
	}
}

// WithConfig replaces every tunable at once
func WithConfig(cfg types.GridConfig) Option {
	return func(s *settings) {
		s.config = cfg
	}
}

// WithAutoPrune controls whether SetRows drops selected ids that are not
// in the new rows. It is on by default; with it off the caller prunes
// through PruneSelection.
func WithAutoPrune(enabled bool) Option {
	return func(s *settings) {
		s.autoPrune = enabled
	}
}

// WithLoadTimeout bounds the initial layout load and every save
func WithLoadTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}
