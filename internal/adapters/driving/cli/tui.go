package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// tuiLogPath receives log output while the TUI owns the terminal.
// Empty discards it.
var tuiLogPath string

// runApp runs the TUI program. Replaced in tests.
var runApp = (*tui.App).Run

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal UI for notesearch.

Controls:
  /            focus the search box
  enter        search, or open the selected result
  tab          cycle recent-search suggestions
  ↑/k, ↓/j     navigate results
  y            copy the selected result's link
  c            collapse or expand the selected group
  r            retry a failed search
  x            dismiss the service advisory
  ctrl+x       clear recent searches
  esc          leave the search box / clear the selection
  ?            toggle help
  q            quit`,
	RunE:        runTUI,
	Annotations: map[string]string{annotationAuth: "required"},
}

// SetTUILogPath sets the file that receives log output while the TUI runs.
func SetTUILogPath(path string) {
	tuiLogPath = path
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	if sessionFactory == nil {
		return errors.New("search service not configured")
	}

	restore, err := redirectLogs(tuiLogPath)
	if err != nil {
		return err
	}
	defer restore()

	ports := tui.NewPorts(sessionFactory.NewSession(), recentService, actionService)
	ports.User = currentUser

	app, err := tui.NewApp(ports)
	if err != nil {
		ports.Session.Close()
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// redirectLogs points the logger at path, or discards output when path is
// empty, and returns a function restoring the previous writer.
func redirectLogs(path string) (func(), error) {
	prev := logger.Output()
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(prev) }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(prev)
		_ = f.Close()
	}, nil
}
