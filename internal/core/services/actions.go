package services

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService opens results in the browser and copies their links.
type ResultActionService struct {
	openURL   func(string) error
	clipboard func(string) error
}

// NewResultActionService creates a new result action service using the
// platform browser and the system clipboard.
func NewResultActionService() *ResultActionService {
	return &ResultActionService{
		openURL:   OpenURL,
		clipboard: copyToClipboard,
	}
}

// CopyLink copies the result's URL to the system clipboard.
func (s *ResultActionService) CopyLink(_ context.Context, result *domain.SearchResult) error {
	link, err := resultURL(result)
	if err != nil {
		return err
	}
	logger.Debug("actions: copy %s", link)
	return s.clipboard(link)
}

// OpenResult opens the result's URL in the default browser.
func (s *ResultActionService) OpenResult(_ context.Context, result *domain.SearchResult) error {
	link, err := resultURL(result)
	if err != nil {
		return err
	}
	logger.Debug("actions: open %s", link)
	return s.openURL(link)
}

// resultURL returns the result's link if it is an absolute http(s) URL.
func resultURL(result *domain.SearchResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("%w: result is nil", domain.ErrInvalidInput)
	}
	link := strings.TrimSpace(result.URL)
	if link == "" {
		return "", fmt.Errorf("%w: result has no link", domain.ErrInvalidInput)
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: refusing to open %q", domain.ErrInvalidInput, link)
	}
	return link, nil
}

// OpenURL opens a URL in the default browser using OS-specific commands.
func OpenURL(link string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", link)
	case osLinux:
		cmd = exec.Command("xdg-open", link)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
