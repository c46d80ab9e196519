package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/groupview/internal/session"
	"github.com/Iron-Ham/groupview/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the dataset interactively",
	Long: `Open the interactive grouped view of the dataset.

Keys: j/k move, space toggles a group, g cycles the group field, G removes
grouping, e/c expand or collapse all, s cycles the sort order, n toggles
the new rows group, a appends a row, i edits a cell, r rebuilds, q quits.`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().BoolP("watch", "w", false, "reload the dataset when the file changes")
	_ = viper.BindPFlag("data.watch", viewCmd.Flags().Lookup("watch"))
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	scroll := tui.NewScroll()
	s, err := session.Open(cfg,
		session.WithLogger(logger),
		session.WithScrollHint(scroll),
	)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer s.Close()

	app := tui.New(s, scroll, cfg.TUI, cfg.Data.Watch)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
