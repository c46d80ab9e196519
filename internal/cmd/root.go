package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/groupview/internal/config"
	"github.com/Iron-Ham/groupview/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "groupview",
	Short: "Browse tabular data grouped by any field",
	Long: `groupview loads a YAML or JSON dataset and shows its rows grouped by a
field, with collapsible group headers, sortable groups and in-place editing.

Run without a subcommand it opens the interactive view when attached to a
terminal and prints the grouped rows otherwise.`,
	Args:          cobra.NoArgs,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.config/groupview/config.yaml)")
	flags.StringP("data", "d", "", "dataset file (YAML or JSON)")
	flags.StringP("group-by", "g", "", "field to group by")
	flags.String("sort", "", "group order: asc, desc or none")
	flags.Int("letters", 0, "group on the first N characters of the key")
	flags.Bool("typed", false, "order keys by their type instead of their text")
	flags.Bool("collapse", false, "start with every group collapsed")
	flags.String("collation", "", "language tag for text ordering, e.g. sv-SE")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("data.path", flags.Lookup("data"))
	_ = viper.BindPFlag("grouping.field", flags.Lookup("group-by"))
	_ = viper.BindPFlag("grouping.sort", flags.Lookup("sort"))
	_ = viper.BindPFlag("grouping.start_letters", flags.Lookup("letters"))
	_ = viper.BindPFlag("grouping.typed_keys", flags.Lookup("typed"))
	_ = viper.BindPFlag("grouping.start_collapsed", flags.Lookup("collapse"))
	_ = viper.BindPFlag("grouping.collation", flags.Lookup("collation"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/groupview")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GROUPVIEW")
	// Replace dots with underscores for nested keys in env vars
	// e.g., GROUPVIEW_GROUPING_FIELD for grouping.field
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return runView(cmd, args)
	}
	return runPrint(cmd, args)
}

// loadConfig reads and validates the merged flag, env and file configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger opens the log file when logging is enabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLogger(cfg.Logging.ResolveLogDir(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}
