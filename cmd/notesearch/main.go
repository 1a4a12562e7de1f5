// Command notesearch searches notes across the services aggregated by the
// search workflow.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	configfile "github.com/custodia-labs/notesearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notesearch/internal/adapters/driven/identity/google"
	filestore "github.com/custodia-labs/notesearch/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/notesearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notesearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/notesearch/internal/adapters/driven/webhook"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/core/services"
)

// EnvHome relocates the state directory, which defaults to ~/.notesearch.
const EnvHome = "NOTESEARCH_HOME"

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	home, err := stateDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cleanup, err := wire(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	// cobra has already printed the error.
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

func stateDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	return configfile.DefaultDir()
}

// wire builds the services and hands them to the CLI. The returned
// function releases the recent-search store.
func wire(home string) (func(), error) {
	configStore, err := configfile.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	store, err := openRecentStore(settings.Recent.Backend, filepath.Join(home, "data"))
	if err != nil {
		return nil, err
	}
	recentService := services.NewRecentSearchService(store)

	transport := webhook.NewRetrying(
		webhook.NewTransport(settings.Webhook.URL),
		webhook.PolicyFromSettings(settings.Webhook),
	)

	var provider driven.IdentityProvider
	if settings.Auth.IsConfigured() {
		provider = google.NewProvider(settings.Auth.ClientID, settings.Auth.ClientSecret)
	}
	tokens := filestore.NewTokenStore(filepath.Join(home, "token.json"))

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetRecentService(recentService)
	cli.SetSessionFactory(services.NewSessionFactory(transport, recentService, nil))
	cli.SetAuthService(services.NewAuthService(settings.Auth, provider, tokens))
	cli.SetActionService(services.NewResultActionService())
	cli.SetTUILogPath(filepath.Join(home, "debug.log"))

	return func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing recent searches: %v\n", err)
		}
	}, nil
}

// openRecentStore opens the key/value backend selected by recent.backend.
func openRecentStore(backend domain.RecentBackend, dataDir string) (driven.KeyValueStore, error) {
	switch backend {
	case domain.RecentBackendMemory:
		return memory.NewKVStore(), nil
	case domain.RecentBackendSQLite:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	default:
		store, err := filestore.NewKVStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return store, nil
	}
}
