package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// RecentBackend selects where recent searches are persisted.
type RecentBackend string

// Available recent-search backends.
const (
	// RecentBackendFile stores one JSON file per key under the data directory.
	RecentBackendFile RecentBackend = "file"

	// RecentBackendSQLite stores keys in the local state database.
	RecentBackendSQLite RecentBackend = "sqlite"

	// RecentBackendMemory keeps recent searches for the life of the process.
	RecentBackendMemory RecentBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b RecentBackend) IsValid() bool {
	switch b {
	case RecentBackendFile, RecentBackendSQLite, RecentBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b RecentBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b RecentBackend) Description() string {
	switch b {
	case RecentBackendFile:
		return "File (JSON under ~/.notesearch/data)"
	case RecentBackendSQLite:
		return "SQLite (~/.notesearch/data/state.db)"
	case RecentBackendMemory:
		return "Memory (not persisted)"
	default:
		return "Unknown"
	}
}

// AllRecentBackends returns all available recent-search backends.
func AllRecentBackends() []RecentBackend {
	return []RecentBackend{
		RecentBackendFile,
		RecentBackendSQLite,
		RecentBackendMemory,
	}
}

// WebhookSettings configures the search endpoint and the policy wrapped
// around it.
type WebhookSettings struct {
	// URL is the search webhook endpoint. Empty means not configured.
	URL string

	// Retries is the number of extra attempts after a retryable failure.
	Retries int

	// RetryBackoffMs is the delay before the first retry. Later retries
	// double it.
	RetryBackoffMs int

	// RatePerSecond limits outgoing requests. Zero disables the limit.
	RatePerSecond int

	// Burst is the token bucket size used with RatePerSecond.
	Burst int

	// TimeoutSeconds bounds each attempt. Zero means no timeout.
	TimeoutSeconds int
}

// IsConfigured returns true if an endpoint URL is set.
func (w WebhookSettings) IsConfigured() bool {
	return strings.TrimSpace(w.URL) != ""
}

// RetryBackoff returns the initial retry delay.
func (w WebhookSettings) RetryBackoff() time.Duration {
	return time.Duration(w.RetryBackoffMs) * time.Millisecond
}

// Timeout returns the per-attempt timeout, or zero for none.
func (w WebhookSettings) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// RecentSettings configures recent-search persistence.
type RecentSettings struct {
	Backend RecentBackend
}

// AuthSettings configures the sign-in gate.
type AuthSettings struct {
	// Enabled turns the gate on. When off every command runs unauthenticated.
	Enabled bool

	// ClientID is the Google OAuth client ID.
	ClientID string

	// ClientSecret is the Google OAuth client secret.
	ClientSecret string

	// AllowedEmails restricts access. Empty allows any signed-in user.
	AllowedEmails []string
}

// IsConfigured returns true if OAuth client credentials are present.
func (a AuthSettings) IsConfigured() bool {
	return a.ClientID != "" && a.ClientSecret != ""
}

// Allows reports whether email passes the allow-list.
// Comparison is case-insensitive.
func (a AuthSettings) Allows(email string) bool {
	if len(a.AllowedEmails) == 0 {
		return email != ""
	}
	for _, allowed := range a.AllowedEmails {
		if strings.EqualFold(strings.TrimSpace(allowed), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Webhook holds search endpoint settings.
	Webhook WebhookSettings

	// Recent holds recent-search persistence settings.
	Recent RecentSettings

	// Auth holds sign-in gate settings.
	Auth AuthSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The webhook URL has no default; it must come from the config file
// or NOTESEARCH_WEBHOOK_URL.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Webhook: WebhookSettings{
			Retries:        1,
			RetryBackoffMs: 500,
			RatePerSecond:  0,
			Burst:          1,
			TimeoutSeconds: 0,
		},
		Recent: RecentSettings{
			Backend: RecentBackendFile,
		},
	}
}

// Validate checks settings for values that cannot work.
// A missing webhook URL is not a validation failure; searches report it
// as a ConfigurationError instead.
func (s AppSettings) Validate() error {
	if s.Webhook.URL != "" {
		u, err := url.Parse(s.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: webhook.url must be an http(s) URL: %q", ErrInvalidInput, s.Webhook.URL)
		}
	}
	if s.Webhook.Retries < 0 {
		return fmt.Errorf("%w: webhook.retries must not be negative", ErrInvalidInput)
	}
	if s.Webhook.RetryBackoffMs < 0 {
		return fmt.Errorf("%w: webhook.retry_backoff_ms must not be negative", ErrInvalidInput)
	}
	if s.Webhook.RatePerSecond < 0 {
		return fmt.Errorf("%w: webhook.rate_per_second must not be negative", ErrInvalidInput)
	}
	if s.Webhook.RatePerSecond > 0 && s.Webhook.Burst < 1 {
		return fmt.Errorf("%w: webhook.burst must be at least 1 when rate limiting", ErrInvalidInput)
	}
	if s.Webhook.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: webhook.timeout_seconds must not be negative", ErrInvalidInput)
	}
	if !s.Recent.Backend.IsValid() {
		return fmt.Errorf("%w: unknown recent.backend %q", ErrInvalidInput, s.Recent.Backend)
	}
	if s.Auth.Enabled && !s.Auth.IsConfigured() {
		return fmt.Errorf("%w: auth.enabled requires auth.client_id and auth.client_secret", ErrInvalidInput)
	}
	return nil
}
