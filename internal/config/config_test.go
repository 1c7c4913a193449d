package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, default filling and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil configuration.
	err := Validate(nil)
	require.Error(t, err)

	// Empty configuration gets defaults.
	cfg := new(Config)

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultSevenZipName, cfg.SevenZipPath)
	require.Equal(t, DefaultPageBaseURL, cfg.PageBaseURL)
	require.Equal(t, DefaultDownloadHost, cfg.DownloadHost)

	// Bad page URL.
	cfg = &Config{
		PageBaseURL: "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Negative timeout.
	cfg = &Config{
		Timeout: -time.Second,
	}

	err = Validate(cfg)
	require.Error(t, err)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		SevenZipPath: "/usr/local/bin/7zz",
		WorkDir:      dir,
		Timeout:      30 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.SevenZipPath, loaded.SevenZipPath)
	require.Equal(t, cfg.WorkDir, loaded.WorkDir)
	require.Equal(t, cfg.Timeout, loaded.Timeout)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestSevenZipFromEnv verifies the environment override for the archiver command.
func TestSevenZipFromEnv(t *testing.T) {
	t.Setenv(SevenZipEnvVar, "/opt/7z/7zz")
	require.Equal(t, "/opt/7z/7zz", SevenZipFromEnv())

	t.Setenv(SevenZipEnvVar, "")
	require.Equal(t, DefaultSevenZipName, SevenZipFromEnv())
}
