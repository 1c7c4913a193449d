package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared across fetcher runs.
type Config struct {
	// SevenZipPath is the path or command name of the 7z executable.
	SevenZipPath string `yaml:"seven_zip"`
	// WorkDir is an optional directory for temporary staging trees.
	// When empty, the system temporary location is used.
	WorkDir string `yaml:"workdir"`
	// PageBaseURL is the release-notes page prefix the version is appended to.
	PageBaseURL string `yaml:"page_url"`
	// DownloadHost is the host prefix installer download links must start with.
	DownloadHost string `yaml:"download_host"`
	// UserAgent is sent with every HTTP request.
	UserAgent string `yaml:"user_agent"`
	// Timeout bounds a single HTTP request. Zero means no explicit timeout.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for fetcher settings.
	DefaultConfigFilename = "unity-mono-fetcher-settings.yaml"

	// DefaultSevenZipName is the archiver command resolved from PATH
	// when no explicit path is configured.
	DefaultSevenZipName = "7z"

	// SevenZipEnvVar overrides the default archiver command name.
	SevenZipEnvVar = "SEVEN_ZIP"

	// DefaultPageBaseURL is the Unity release-notes page prefix.
	DefaultPageBaseURL = "https://unity.com/releases/editor/whats-new/"

	// DefaultDownloadHost is the Unity artifact download host prefix.
	DefaultDownloadHost = "https://download.unity3d.com/download_unity/"

	// DefaultUserAgent is a browser-like user agent; the release page
	// refuses requests without one.
	DefaultUserAgent = "Mozilla/5.0 (compatible; unity-mono-fetcher/1.0)"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeTimeout is returned when the configured timeout is negative.
	errNegativeTimeout = errors.New("timeout must not be negative")
)

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		SevenZipPath: DefaultSevenZipName,
		PageBaseURL:  DefaultPageBaseURL,
		DownloadHost: DefaultDownloadHost,
		UserAgent:    DefaultUserAgent,
	}
}

// SevenZipFromEnv resolves the archiver command from the environment,
// falling back to the default command name. Only the CLI layer consults
// the environment; the pipeline receives the result explicitly.
func SevenZipFromEnv() string {
	if value := os.Getenv(SevenZipEnvVar); value != "" {
		return value
	}

	return DefaultSevenZipName
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings, filling absent fields with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.SevenZipPath == "" {
		cfg.SevenZipPath = DefaultSevenZipName
	}

	if cfg.PageBaseURL == "" {
		cfg.PageBaseURL = DefaultPageBaseURL
	}

	if cfg.DownloadHost == "" {
		cfg.DownloadHost = DefaultDownloadHost
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if _, err := url.ParseRequestURI(cfg.PageBaseURL); err != nil {
		return fmt.Errorf("invalid page URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.DownloadHost); err != nil {
		return fmt.Errorf("invalid download host: %w", err)
	}

	if cfg.Timeout < 0 {
		return errNegativeTimeout
	}

	return nil
}
