package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete groupview configuration
type Config struct {
	Grouping GroupingConfig `mapstructure:"grouping"`
	Data     DataConfig     `mapstructure:"data"`
	TUI      TUIConfig      `mapstructure:"tui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GroupingConfig controls how the view groups rows
type GroupingConfig struct {
	// Field is the field to group by when the view opens ("" = ungrouped)
	Field string `mapstructure:"field"`
	// Sort is the node order
	// Options: "asc", "desc", "none"
	Sort string `mapstructure:"sort"`
	// StartLetters groups on the first N characters of the key (0 = whole key)
	StartLetters int `mapstructure:"start_letters"`
	// TypedKeys orders keys by their own type instead of their text
	TypedKeys bool `mapstructure:"typed_keys"`
	// Collation is a BCP-47 language tag for text ordering ("" = byte order)
	Collation string `mapstructure:"collation"`
	// AllowNewRows shows the placeholder node that collects appended rows
	AllowNewRows bool `mapstructure:"allow_new_rows"`
	// StartCollapsed collapses newly created nodes
	StartCollapsed bool `mapstructure:"start_collapsed"`
	// NewRowsHeader is the header text of the placeholder node
	NewRowsHeader string `mapstructure:"new_rows_header"`
}

// DataConfig controls where rows come from
type DataConfig struct {
	// Path is a YAML or JSON dataset file
	Path string `mapstructure:"path"`
	// Watch reloads the dataset when the file changes
	Watch bool `mapstructure:"watch"`
	// Schema maps field names to types: string, int, float, bool, time, duration.
	// Fields not listed are inferred from their values.
	Schema map[string]string `mapstructure:"schema"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// ShowCounts appends the member count to node headers
	ShowCounts bool `mapstructure:"show_counts"`
	// ColumnWidth is the width of each column in cells (default: 14, min: 4, max: 60)
	ColumnWidth int `mapstructure:"column_width"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is active
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the directory for groupview.log ("" = the config directory)
	Dir string `mapstructure:"dir"`
}

// ResolveLogDir returns the directory logs are written to.
func (l *LoggingConfig) ResolveLogDir() string {
	if l.Dir == "" {
		return ConfigDir()
	}
	if strings.HasPrefix(l.Dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, l.Dir[2:])
		}
	}
	return l.Dir
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Grouping: GroupingConfig{
			Field:          "",
			Sort:           "asc",
			StartLetters:   0,
			TypedKeys:      false,
			Collation:      "",
			AllowNewRows:   true,
			StartCollapsed: false,
			NewRowsHeader:  "New Rows",
		},
		Data: DataConfig{
			Path:   "",
			Watch:  false,
			Schema: map[string]string{},
		},
		TUI: TUIConfig{
			ShowCounts:  true,
			ColumnWidth: 14,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Dir:     "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Grouping defaults
	viper.SetDefault("grouping.field", defaults.Grouping.Field)
	viper.SetDefault("grouping.sort", defaults.Grouping.Sort)
	viper.SetDefault("grouping.start_letters", defaults.Grouping.StartLetters)
	viper.SetDefault("grouping.typed_keys", defaults.Grouping.TypedKeys)
	viper.SetDefault("grouping.collation", defaults.Grouping.Collation)
	viper.SetDefault("grouping.allow_new_rows", defaults.Grouping.AllowNewRows)
	viper.SetDefault("grouping.start_collapsed", defaults.Grouping.StartCollapsed)
	viper.SetDefault("grouping.new_rows_header", defaults.Grouping.NewRowsHeader)

	// Data defaults
	viper.SetDefault("data.path", defaults.Data.Path)
	viper.SetDefault("data.watch", defaults.Data.Watch)
	viper.SetDefault("data.schema", defaults.Data.Schema)

	// TUI defaults
	viper.SetDefault("tui.show_counts", defaults.TUI.ShowCounts)
	viper.SetDefault("tui.column_width", defaults.TUI.ColumnWidth)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "groupview")
	}
	// Fall back to ~/.config/groupview
	home, err := os.UserHomeDir()
	if err != nil {
		return ".groupview"
	}
	return filepath.Join(home, ".config", "groupview")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidSortDirections returns the list of valid grouping.sort values
func ValidSortDirections() []string {
	return []string{"asc", "desc", "none"}
}

// IsValidSortDirection checks if the given sort direction is valid
func IsValidSortDirection(s string) bool {
	for _, valid := range ValidSortDirections() {
		if s == valid {
			return true
		}
	}
	return false
}
