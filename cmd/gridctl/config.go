package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/arthur-debert/dispatchgrid/storage"
	"github.com/arthur-debert/dispatchgrid/types"
)

// configKeys maps config keys to the persistent flag that sets them
var configKeys = map[string]string{
	"store":         "store",
	"store_path":    "store-path",
	"key":           "key",
	"page_size":     "page-size",
	"min_width":     "min-width",
	"default_width": "default-width",
	"locale":        "locale",
	"id_field":      "id-field",
	"format":        "format",
	"log_level":     "log-level",
	"verbose":       "verbose",
}

// Config is the resolved gridctl configuration
type Config struct {
	Store     string
	StorePath string
	Key       string
	IDField   string
	Format    string
	LogLevel  string
	Verbose   bool
	Grid      types.GridConfig
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultGridConfig()
	v.SetDefault("store", string(storage.KindJSON))
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("min_width", d.MinColumnWidth)
	v.SetDefault("default_width", d.DefaultColumnWidth)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("id_field", "id")
	v.SetDefault("format", "table")
	v.SetDefault("log_level", "warn")
}

// loadConfig reads every key through viper's precedence chain.
// Flags left unchanged fall through to env, config file and defaults.
func loadConfig(v *viper.Viper) Config {
	return Config{
		Store:     v.GetString("store"),
		StorePath: v.GetString("store_path"),
		Key:       v.GetString("key"),
		IDField:   v.GetString("id_field"),
		Format:    v.GetString("format"),
		LogLevel:  v.GetString("log_level"),
		Verbose:   v.GetBool("verbose"),
		Grid: types.GridConfig{
			PageSize:           v.GetInt("page_size"),
			MinColumnWidth:     v.GetInt("min_width"),
			DefaultColumnWidth: v.GetInt("default_width"),
			Locale:             v.GetString("locale"),
		},
	}
}

// defaultStorePath places the layout store in the user config directory
func defaultStorePath(kind storage.Kind) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	name := "layouts.json"
	switch kind {
	case storage.KindYAML:
		name = "layouts.yaml"
	case storage.KindSQLite:
		name = "layouts.db"
	}
	return filepath.Join(dir, "gridctl", name)
}
