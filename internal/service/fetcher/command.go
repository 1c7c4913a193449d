package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oshokin/unity-mono-fetcher/internal/config"
	"github.com/oshokin/unity-mono-fetcher/internal/logger"
)

// DefaultVersion is the editor version fetched when no argument is given.
const DefaultVersion = "6000.0.58f2"

// installerFilenameTemplate names the installer package for a version.
const installerFilenameTemplate = "UnitySetup-Windows-Mono-Support-for-Editor-%s.pkg"

// Options contains inputs for the fetcher entry point.
type Options struct {
	// Version is the Unity editor version string, e.g. "6000.0.58f2".
	Version string
	// OutputPath is the destination zip file. Defaults to
	// "<normalized version>.zip" in the current directory.
	OutputPath string
	// WorkDir optionally overrides where staging trees are created.
	WorkDir string
	// SevenZipPath optionally overrides the archiver executable.
	SevenZipPath string
	// ConfigPath is an optional path to a settings file. When the file
	// does not exist yet, the resolved settings are persisted there.
	ConfigPath string
	// Timeout optionally bounds each HTTP request.
	Timeout time.Duration
}

// fetcher holds the resolved state of a single pipeline run.
// It is unexported—callers should use Run, which encapsulates setup.
type fetcher struct {
	// cfg holds the resolved settings in effect for this run.
	cfg *config.Config
	// version is the exact version string requested by the caller.
	version string
	// outputPath is the destination archive path.
	outputPath string
	// client issues the page and download requests.
	client *http.Client
}

// Run executes the download-and-repackage workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "unity-mono-fetcher")

	f, err := newFetcher(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize fetcher: %w", err)
	}

	defer releaseRunMarker(f.markerDir())

	if err = f.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Fetcher run failed", "error", err)
		return err
	}

	logger.Info(ctx, "Fetcher completed successfully")

	return nil
}

// newFetcher resolves options against the optional settings file, validates
// the result and claims the staging area.
func newFetcher(ctx context.Context, opts *Options) (*fetcher, error) {
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		return nil, errEmptyVersion
	}

	cfg := config.Default()
	persistSettings := false

	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)

		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
			// First run with this settings path.
			persistSettings = true
		default:
			return nil, err
		}
	}

	if opts.SevenZipPath != "" {
		cfg.SevenZipPath = opts.SevenZipPath
	}

	if opts.WorkDir != "" {
		cfg.WorkDir = opts.WorkDir
	}

	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if persistSettings {
		if err := config.Save(opts.ConfigPath, cfg); err != nil {
			return nil, fmt.Errorf("save settings: %w", err)
		}
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = NormalizeVersion(version) + ".zip"
	}

	f := &fetcher{
		cfg:        cfg,
		version:    version,
		outputPath: outputPath,
		client:     &http.Client{Timeout: cfg.Timeout},
	}

	if err := acquireRunMarker(ctx, f.markerDir()); err != nil {
		return nil, err
	}

	return f, nil
}

// markerDir is where the run marker lives: the configured working
// directory when set, otherwise the system temporary location.
func (f *fetcher) markerDir() string {
	if f.cfg.WorkDir != "" {
		return f.cfg.WorkDir
	}

	return os.TempDir()
}

// Run drives the pipeline in strict sequence: resolve, download, extract,
// locate, repackage. The staging tree is removed on every exit path.
func (f *fetcher) Run(ctx context.Context) error {
	if _, err := os.Stat(f.outputPath); err == nil {
		logger.InfoKV(ctx, "Removing existing output file", "path", f.outputPath)

		if err = os.Remove(f.outputPath); err != nil {
			return fmt.Errorf("remove existing output: %w", err)
		}
	}

	workRoot, err := os.MkdirTemp(f.cfg.WorkDir, "unity-mono-fetcher-")
	if err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}

	defer func() {
		if removeErr := os.RemoveAll(workRoot); removeErr != nil {
			logger.WarnKV(ctx, "Unable to remove working directory",
				"path", workRoot, "error", removeErr)
		}
	}()

	logger.InfoKV(ctx, "Using temporary directory", "path", workRoot)

	installerURL, err := f.resolveInstallerURL(ctx)
	if err != nil {
		return err
	}

	pkgPath := filepath.Join(workRoot, installerFilename(f.version))
	if err = f.downloadFile(ctx, installerURL, pkgPath); err != nil {
		return fmt.Errorf("download installer: %w", err)
	}

	payloadDir, err := f.extractPayload(ctx, workRoot, pkgPath)
	if err != nil {
		return err
	}

	managedDir, err := locateManaged(payloadDir)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Located managed directory", "path", managedDir)

	if dir := filepath.Dir(f.outputPath); dir != "." {
		if err = os.MkdirAll(dir, stageDirPermissions); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err = makeArchive(managedDir, f.outputPath); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Created archive", "path", f.outputPath)

	return nil
}

// installerFilename names the installer package file for a version.
func installerFilename(version string) string {
	return fmt.Sprintf(installerFilenameTemplate, version)
}
