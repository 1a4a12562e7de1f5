package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyWebhookURL      = "webhook.url"
	KeyWebhookRetries  = "webhook.retries"
	KeyWebhookBackoff  = "webhook.retry_backoff_ms"
	KeyWebhookRate     = "webhook.rate_per_second"
	KeyWebhookBurst    = "webhook.burst"
	KeyWebhookTimeout  = "webhook.timeout_seconds"
	KeyRecentBackend   = "recent.backend"
	KeyAuthEnabled     = "auth.enabled"
	KeyAuthClientID    = "auth.client_id"
	KeyAuthSecret      = "auth.client_secret"
	KeyAuthAllowEmails = "auth.allowed_emails"
)

// EnvWebhookURL overrides webhook.url when set.
const EnvWebhookURL = "NOTESEARCH_WEBHOOK_URL"

// settingKeys lists the supported keys in display order.
var settingKeys = []string{
	KeyWebhookURL,
	KeyWebhookRetries,
	KeyWebhookBackoff,
	KeyWebhookRate,
	KeyWebhookBurst,
	KeyWebhookTimeout,
	KeyRecentBackend,
	KeyAuthEnabled,
	KeyAuthClientID,
	KeyAuthSecret,
	KeyAuthAllowEmails,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// NOTESEARCH_WEBHOOK_URL takes precedence over the stored webhook.url.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Webhook: domain.WebhookSettings{
			URL:            strings.TrimSpace(s.configStore.GetString(KeyWebhookURL)),
			Retries:        s.getInt(KeyWebhookRetries, defaults.Webhook.Retries),
			RetryBackoffMs: s.getInt(KeyWebhookBackoff, defaults.Webhook.RetryBackoffMs),
			RatePerSecond:  s.getInt(KeyWebhookRate, defaults.Webhook.RatePerSecond),
			Burst:          s.getInt(KeyWebhookBurst, defaults.Webhook.Burst),
			TimeoutSeconds: s.getInt(KeyWebhookTimeout, defaults.Webhook.TimeoutSeconds),
		},
		Recent: domain.RecentSettings{
			Backend: s.getBackend(defaults.Recent.Backend),
		},
		Auth: domain.AuthSettings{
			Enabled:       s.getBool(KeyAuthEnabled, defaults.Auth.Enabled),
			ClientID:      s.configStore.GetString(KeyAuthClientID),
			ClientSecret:  s.configStore.GetString(KeyAuthSecret),
			AllowedEmails: s.configStore.GetStringSlice(KeyAuthAllowEmails),
		},
	}

	if env := strings.TrimSpace(s.getenv(EnvWebhookURL)); env != "" {
		settings.Webhook.URL = env
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyWebhookURL, settings.Webhook.URL},
		{KeyWebhookRetries, settings.Webhook.Retries},
		{KeyWebhookBackoff, settings.Webhook.RetryBackoffMs},
		{KeyWebhookRate, settings.Webhook.RatePerSecond},
		{KeyWebhookBurst, settings.Webhook.Burst},
		{KeyWebhookTimeout, settings.Webhook.TimeoutSeconds},
		{KeyRecentBackend, settings.Recent.Backend.String()},
		{KeyAuthEnabled, settings.Auth.Enabled},
		{KeyAuthClientID, settings.Auth.ClientID},
		{KeyAuthAllowEmails, settings.Auth.AllowedEmails},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Only overwrite the secret when one is provided
	if settings.Auth.ClientSecret != "" {
		if err := s.configStore.Set(KeyAuthSecret, settings.Auth.ClientSecret); err != nil {
			return fmt.Errorf("save %s: %w", KeyAuthSecret, err)
		}
	}

	return nil
}

// Set parses value for key and persists it.
// The resulting settings must still validate.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Keep a URL supplied only through the environment out of the file
	settings.Webhook.URL = strings.TrimSpace(s.configStore.GetString(KeyWebhookURL))

	value = strings.TrimSpace(value)
	switch key {
	case KeyWebhookURL:
		settings.Webhook.URL = value
	case KeyWebhookRetries:
		settings.Webhook.Retries, err = parseInt(key, value)
	case KeyWebhookBackoff:
		settings.Webhook.RetryBackoffMs, err = parseInt(key, value)
	case KeyWebhookRate:
		settings.Webhook.RatePerSecond, err = parseInt(key, value)
	case KeyWebhookBurst:
		settings.Webhook.Burst, err = parseInt(key, value)
	case KeyWebhookTimeout:
		settings.Webhook.TimeoutSeconds, err = parseInt(key, value)
	case KeyRecentBackend:
		settings.Recent.Backend = domain.RecentBackend(strings.ToLower(value))
	case KeyAuthEnabled:
		settings.Auth.Enabled, err = strconv.ParseBool(value)
		if err != nil {
			err = fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
	case KeyAuthClientID:
		settings.Auth.ClientID = value
	case KeyAuthSecret:
		settings.Auth.ClientSecret = value
	case KeyAuthAllowEmails:
		settings.Auth.AllowedEmails = splitList(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return err
	}

	return s.Save(settings)
}

// Keys returns the supported config keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.RecentBackend) domain.RecentBackend {
	val := s.configStore.GetString(KeyRecentBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.RecentBackend(strings.ToLower(val))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
