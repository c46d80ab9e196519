package tui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/groupview/internal/config"
	"github.com/Iron-Ham/groupview/internal/session"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	session *session.Session
	watch   bool
}

// New creates a new TUI application. When watch is set the dataset file is
// reloaded whenever it changes on disk.
func New(s *session.Session, sc *Scroll, cfg config.TUIConfig, watch bool) *App {
	return &App{
		model:   NewModel(s, sc, cfg),
		session: s,
		watch:   watch,
	}
}

// Run starts the TUI application
func (a *App) Run() error {
	defer a.model.Close()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// File changes arrive on the watcher goroutine; the reload itself runs
	// inside Update so the view is only touched from the program loop.
	if a.watch {
		if err := a.session.Watch(func() {
			a.program.Send(reloadMsg{})
		}); err != nil {
			signal.Stop(sigChan)
			return fmt.Errorf("failed to watch dataset: %w", err)
		}
	}

	_, err := a.program.Run()

	// Clean up signal handler
	signal.Stop(sigChan)

	return err
}
