package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the search webhook, recent-search storage and sign-in settings.

Settings are stored in ~/.notesearch/config.toml. NOTESEARCH_WEBHOOK_URL
overrides webhook.url when set.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change a single setting by its key.

If the value is omitted you are prompted for it. auth.client_secret is read
without echo.

Keys:
  webhook.url               search webhook endpoint
  webhook.retries           extra attempts after a retryable failure
  webhook.retry_backoff_ms  delay before the first retry
  webhook.rate_per_second   request rate limit (0 = unlimited)
  webhook.burst             rate limit burst size
  webhook.timeout_seconds   per-attempt timeout (0 = none)
  recent.backend            file, sqlite or memory
  auth.enabled              true or false
  auth.client_id            Google OAuth client ID
  auth.client_secret        Google OAuth client secret
  auth.allowed_emails       comma-separated allow-list`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		if name, _, _ := strings.Cut(key, "."); name != section {
			section = name
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}
		cmd.Printf("  %-22s %s\n", key, settingValue(settings, key))
	}

	cmd.Println()
	if !settings.Webhook.IsConfigured() {
		cmd.Printf("Status: webhook.url is not set (set %s or run: notesearch settings set webhook.url <url>)\n",
			services.EnvWebhookURL)
	} else if err := settings.Validate(); err != nil {
		cmd.Printf("Status: %v\n", err)
	} else {
		cmd.Println("Status: ready")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		cmd.Printf("%s: ", key)
		if key == services.KeyAuthSecret {
			value = readPassword(cmd.InOrStdin())
			cmd.Println()
		} else {
			value = readLine(bufio.NewReader(cmd.InOrStdin()))
		}
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("%s = %s\n", key, settingValue(settings, key))
	return nil
}

// settingValue formats the current value of key for display.
// Secrets are masked.
func settingValue(s *domain.AppSettings, key string) string {
	switch key {
	case services.KeyWebhookURL:
		return orNotSet(s.Webhook.URL)
	case services.KeyWebhookRetries:
		return strconv.Itoa(s.Webhook.Retries)
	case services.KeyWebhookBackoff:
		return strconv.Itoa(s.Webhook.RetryBackoffMs)
	case services.KeyWebhookRate:
		return strconv.Itoa(s.Webhook.RatePerSecond)
	case services.KeyWebhookBurst:
		return strconv.Itoa(s.Webhook.Burst)
	case services.KeyWebhookTimeout:
		return strconv.Itoa(s.Webhook.TimeoutSeconds)
	case services.KeyRecentBackend:
		return fmt.Sprintf("%s (%s)", s.Recent.Backend, s.Recent.Backend.Description())
	case services.KeyAuthEnabled:
		return strconv.FormatBool(s.Auth.Enabled)
	case services.KeyAuthClientID:
		return orNotSet(s.Auth.ClientID)
	case services.KeyAuthSecret:
		if s.Auth.ClientSecret == "" {
			return "(not set)"
		}
		return maskSecret(s.Auth.ClientSecret)
	case services.KeyAuthAllowEmails:
		if len(s.Auth.AllowedEmails) == 0 {
			return "(any signed-in user)"
		}
		return strings.Join(s.Auth.AllowedEmails, ", ")
	default:
		return ""
	}
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads without echo when stdin is a terminal and falls back to
// a plain line from in otherwise.
func readPassword(in io.Reader) string {
	if in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(bufio.NewReader(in))
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
