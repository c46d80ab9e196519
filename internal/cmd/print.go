package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/groupview/internal/config"
	"github.com/Iron-Ham/groupview/internal/session"
	"github.com/Iron-Ham/groupview/internal/tui"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the grouped rows as plain text",
	Long: `Print every group header and row of the dataset as plain text, in
display order. Collapsed groups print their header only.`,
	Args: cobra.NoArgs,
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().Int("width", 0, "column width (default from tui.column_width)")
	_ = viper.BindPFlag("tui.column_width", printCmd.Flags().Lookup("width"))
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Nothing is appended to a static listing.
	cfg.Grouping.AllowNewRows = false

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	s, err := session.Open(cfg, session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer s.Close()

	width := cfg.TUI.ColumnWidth
	if width == 0 {
		width = config.Default().TUI.ColumnWidth
	}
	return tui.RenderPlain(cmd.OutOrStdout(), s.View(), s.Accessor(), width, cfg.TUI.ShowCounts)
}
