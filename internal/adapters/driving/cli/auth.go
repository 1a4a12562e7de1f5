package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/oauth"
	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/services"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Loopback port range tried for the OAuth callback.
const (
	callbackPortStart = 8765
	callbackPortEnd   = 8785
)

// loginTimeout bounds how long login waits for the browser callback.
var loginTimeout = 5 * time.Minute

// openBrowser opens the consent page. Replaced in tests.
var openBrowser = services.OpenURL

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage sign-in",
	Long: `Sign in with Google to use notesearch when the sign-in gate is enabled.

Enable the gate with:
  notesearch settings set auth.client_id <id>
  notesearch settings set auth.client_secret
  notesearch settings set auth.enabled true

Restrict access with:
  notesearch settings set auth.allowed_emails ana@example.com,ben@example.com`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored sign-in",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if !authService.Enabled() {
		cmd.Println("Sign-in is disabled. Enable it with: notesearch settings set auth.enabled true")
		return nil
	}

	port, err := services.FindCallbackPort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return fmt.Errorf("finding callback port: %w", err)
	}

	req, err := authService.BeginLogin(fmt.Sprintf("http://localhost:%d/callback", port))
	if err != nil {
		return fmt.Errorf("starting login: %w", err)
	}

	server := oauth.NewCallbackServer(port, req.State)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Warn("stopping callback server: %v", err)
		}
	}()

	cmd.Println("Opening your browser to sign in...")
	if err := openBrowser(req.AuthURL); err != nil {
		logger.Debug("open browser: %v", err)
	}
	cmd.Println("If the browser did not open, visit:")
	cmd.Printf("  %s\n\n", req.AuthURL)
	cmd.Println("Waiting for the sign-in to complete...")

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	code, err := server.WaitForCode(ctx)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	user, err := authService.CompleteLogin(cmd.Context(), req, code)
	if err != nil {
		return displayError(err)
	}

	cmd.Printf("Signed in as %s\n", describeUser(user))
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if err := authService.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}
	cmd.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if !authService.Enabled() {
		cmd.Println("Sign-in: disabled")
		return nil
	}
	cmd.Println("Sign-in: enabled")

	user, err := authService.Current(cmd.Context())
	if errors.Is(err, domain.ErrNotAuthenticated) {
		cmd.Println("Status:  not signed in (run: notesearch auth login)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking sign-in: %w", err)
	}
	cmd.Printf("User:    %s\n", describeUser(user))

	if _, err := authService.Require(cmd.Context()); errors.Is(err, domain.ErrNotAuthorized) {
		cmd.Println("Access:  denied (not on auth.allowed_emails)")
		return nil
	}
	cmd.Println("Access:  allowed")
	return nil
}

func describeUser(u domain.User) string {
	if u.Name != "" && u.Email != "" {
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	}
	return u.DisplayName()
}
