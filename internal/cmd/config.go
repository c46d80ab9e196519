package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/Iron-Ham/groupview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify groupview configuration",
	Long: `View or modify groupview configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  groupview config set grouping.field Artist
  groupview config set grouping.sort desc
  groupview config set tui.column_width 20

Valid keys:
  grouping.field            - Field to group by ("" = ungrouped)
  grouping.sort             - Group order: asc, desc, none
  grouping.start_letters    - Group on the first N characters (0 = whole key)
  grouping.typed_keys       - Order keys by type instead of text (true/false)
  grouping.collation        - Language tag for text ordering
  grouping.allow_new_rows   - Show the new rows group (true/false)
  grouping.start_collapsed  - Collapse new groups (true/false)
  grouping.new_rows_header  - Header of the new rows group
  data.path                 - Dataset file
  data.watch                - Reload on file change (true/false)
  tui.show_counts           - Show member counts in headers (true/false)
  tui.column_width          - Column width in cells
  logging.enabled           - Write a debug log (true/false)
  logging.level             - debug, info, warn, error
  logging.dir               - Log directory`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/groupview/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// settableKeys maps each key accepted by "config set" to its value type.
var settableKeys = map[string]string{
	"grouping.field":           "string",
	"grouping.sort":            "string",
	"grouping.start_letters":   "int",
	"grouping.typed_keys":      "bool",
	"grouping.collation":       "string",
	"grouping.allow_new_rows":  "bool",
	"grouping.start_collapsed": "bool",
	"grouping.new_rows_header": "string",
	"data.path":                "string",
	"data.watch":               "bool",
	"tui.show_counts":          "bool",
	"tui.column_width":         "int",
	"logging.enabled":          "bool",
	"logging.level":            "string",
	"logging.dir":              "string",
}

// SettableKeys returns the keys accepted by "config set", sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	settings := map[string]any{
		"grouping": map[string]any{
			"field":           cfg.Grouping.Field,
			"sort":            cfg.Grouping.Sort,
			"start_letters":   cfg.Grouping.StartLetters,
			"typed_keys":      cfg.Grouping.TypedKeys,
			"collation":       cfg.Grouping.Collation,
			"allow_new_rows":  cfg.Grouping.AllowNewRows,
			"start_collapsed": cfg.Grouping.StartCollapsed,
			"new_rows_header": cfg.Grouping.NewRowsHeader,
		},
		"data": map[string]any{
			"path":   cfg.Data.Path,
			"watch":  cfg.Data.Watch,
			"schema": cfg.Data.Schema,
		},
		"tui": map[string]any{
			"show_counts":  cfg.TUI.ShowCounts,
			"column_width": cfg.TUI.ColumnWidth,
		},
		"logging": map[string]any{
			"enabled": cfg.Logging.Enabled,
			"level":   cfg.Logging.Level,
			"dir":     cfg.Logging.Dir,
		},
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	return enc.Close()
}

// parseSetting converts value to the type of key and checks it against the
// same rules Load applies.
func parseSetting(key, value string) (any, error) {
	keyType, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'groupview config set --help' to see valid keys", key)
	}

	var typedValue any
	switch keyType {
	case "bool":
		b, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = n
	default:
		typedValue = value
	}

	// Validate against a copy of the defaults with just this key changed
	cfg := config.Default()
	switch key {
	case "grouping.sort":
		cfg.Grouping.Sort = value
	case "grouping.start_letters":
		cfg.Grouping.StartLetters = typedValue.(int)
	case "grouping.collation":
		cfg.Grouping.Collation = value
	case "tui.column_width":
		cfg.TUI.ColumnWidth = typedValue.(int)
	case "logging.level":
		cfg.Logging.Level = value
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, config.ValidationErrors(errs)
	}
	return typedValue, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseSetting(key, args[1])
	if err != nil {
		return err
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)

	return nil
}

const defaultConfigFile = `# groupview configuration

# How rows are grouped
grouping:
  # Field to group by when the view opens ("" = ungrouped)
  field: ""
  # Group order: asc, desc, none
  sort: asc
  # Group on the first N characters of the key (0 = whole key)
  start_letters: 0
  # Order keys by their own type (numbers, times) instead of their text
  typed_keys: false
  # BCP-47 language tag for text ordering ("" = byte order)
  collation: ""
  # Collect appended rows in a separate group until the next rebuild
  allow_new_rows: true
  # Collapse groups when they are first created
  start_collapsed: false
  new_rows_header: New Rows

# Where rows come from
data:
  path: ""
  # Reload the dataset when the file changes
  watch: false
  # Field types: string, int, float, bool, time, duration
  schema: {}

# TUI (terminal user interface) settings
tui:
  # Show member counts in group headers
  show_counts: true
  # Width of each column in cells (4-60)
  column_width: 14

logging:
  enabled: false
  # debug, info, warn, error
  level: info
  # Log directory ("" = the config directory)
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'groupview config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize groupview's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/groupview/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: GROUPVIEW_* (e.g., GROUPVIEW_GROUPING_FIELD)")

	return nil
}
