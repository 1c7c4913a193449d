package fetcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/unity-mono-fetcher/internal/config"
)

// TestNewFetcher_Defaults derives the output name from the normalized
// version and fills settings with defaults.
func TestNewFetcher_Defaults(t *testing.T) {
	t.Parallel()

	opts := &Options{
		Version: "6000.0.58f2",
		WorkDir: t.TempDir(),
	}

	f, err := newFetcher(context.Background(), opts)
	require.NoError(t, err)

	defer releaseRunMarker(f.markerDir())

	require.Equal(t, "6000.0.58.zip", f.outputPath)
	require.Equal(t, config.DefaultSevenZipName, f.cfg.SevenZipPath)
	require.Equal(t, config.DefaultPageBaseURL, f.cfg.PageBaseURL)
}

// TestNewFetcher_PersistsSettings writes the resolved settings when the
// configuration file does not exist yet and loads them back on the next run.
func TestNewFetcher_PersistsSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")

	opts := &Options{
		Version:      "2021.3.45f1",
		WorkDir:      dir,
		SevenZipPath: "/opt/7z/7zz",
		ConfigPath:   cfgPath,
		Timeout:      time.Minute,
	}

	f, err := newFetcher(context.Background(), opts)
	require.NoError(t, err)

	releaseRunMarker(f.markerDir())

	loaded, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "/opt/7z/7zz", loaded.SevenZipPath)
	require.Equal(t, dir, loaded.WorkDir)
	require.Equal(t, time.Minute, loaded.Timeout)

	// Second run picks the persisted settings up without overrides.
	f, err = newFetcher(context.Background(), &Options{
		Version:    "2021.3.45f1",
		ConfigPath: cfgPath,
	})
	require.NoError(t, err)

	defer releaseRunMarker(f.markerDir())

	require.Equal(t, "/opt/7z/7zz", f.cfg.SevenZipPath)
}

// TestNewFetcher_EmptyVersion rejects blank version strings.
func TestNewFetcher_EmptyVersion(t *testing.T) {
	t.Parallel()

	_, err := newFetcher(context.Background(), &Options{Version: " "})
	require.ErrorIs(t, err, errEmptyVersion)
}
