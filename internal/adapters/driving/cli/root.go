// Package cli provides the cobra command tree of the notesearch binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// annotationAuth marks commands that run behind the sign-in gate.
const annotationAuth = "notesearch.auth"

var (
	// version is set at build time via SetVersion.
	version = "dev"

	verbose bool

	sessionFactory  driving.SessionFactory
	recentService   driving.RecentSearchService
	settingsService driving.SettingsService
	authService     driving.AuthService
	actionService   driving.ResultActionService

	// currentUser is the identity resolved by the sign-in gate.
	currentUser = domain.Anonymous
)

var rootCmd = &cobra.Command{
	Use:   "notesearch",
	Short: "Search your notes across Google Drive, Gmail, Calendar, OneDrive and Trello",
	Long: `notesearch sends your query to the search workflow and shows the
aggregated results grouped by service.

Run without arguments to open the interactive terminal UI.`,
	SilenceUsage:      true,
	PersistentPreRunE: runPreflight,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
	Annotations: map[string]string{annotationAuth: "required"},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version printed by `notesearch version`.
func SetVersion(v string) {
	version = v
}

// SetSessionFactory sets the factory used by search, tui and mcp.
func SetSessionFactory(f driving.SessionFactory) {
	sessionFactory = f
}

// SetRecentService sets the recent-search service.
func SetRecentService(s driving.RecentSearchService) {
	recentService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetAuthService sets the sign-in gate.
func SetAuthService(s driving.AuthService) {
	authService = s
}

// SetActionService sets the service behind open and copy in the TUI.
func SetActionService(s driving.ResultActionService) {
	actionService = s
}

func runPreflight(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.Debug("running %s", cmd.CommandPath())

	if cmd.Annotations[annotationAuth] != "required" {
		return nil
	}
	return requireSignIn(cmd)
}

// requireSignIn applies the sign-in gate and records the resolved user.
func requireSignIn(cmd *cobra.Command) error {
	currentUser = domain.Anonymous
	if authService == nil {
		return nil
	}

	user, err := authService.Require(cmd.Context())
	if err != nil {
		logger.Warn("sign-in gate refused %s: %v", cmd.CommandPath(), err)
		return displayError(err)
	}
	currentUser = user
	logger.Debug("signed in as %s", user.DisplayName())
	return nil
}

// userError shows the user-facing message of an error while keeping it
// available to errors.Is and errors.As.
type userError struct {
	err error
}

func (e *userError) Error() string { return domain.UserMessage(e.err) }

func (e *userError) Unwrap() error { return e.err }

func displayError(err error) error {
	if err == nil {
		return nil
	}
	return &userError{err: err}
}
