package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps the OAuth token in a single 0600 JSON file.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store writing to path. The parent directory is
// created on first save.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.path
}

// Load reads the stored token.
func (s *TokenStore) Load(_ context.Context) (*domain.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read token: %w", err)
	}

	var tok domain.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, domain.ErrNotFound
	}
	return &tok, nil
}

// Save writes the token.
func (s *TokenStore) Save(_ context.Context, token *domain.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return writeFileAtomic(s.path, data, 0600)
}

// Delete removes the token file.
func (s *TokenStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
