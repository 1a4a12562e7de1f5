package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

func TestOpenRecentStore(t *testing.T) {
	for _, backend := range domain.AllRecentBackends() {
		t.Run(backend.String(), func(t *testing.T) {
			store, err := openRecentStore(backend, filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Set(t.Context(), "k", []byte(`[]`)))
			got, err := store.Get(t.Context(), "k")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), got)
		})
	}
}

func TestStateDir_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)

	got, err := stateDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestWire_CreatesConfigDirectory(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")

	cleanup, err := wire(home)
	require.NoError(t, err)
	cleanup()

	info, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
