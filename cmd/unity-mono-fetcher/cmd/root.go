package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/unity-mono-fetcher/internal/config"
	"github.com/oshokin/unity-mono-fetcher/internal/logger"
	"github.com/oshokin/unity-mono-fetcher/internal/service/fetcher"
	"github.com/oshokin/unity-mono-fetcher/internal/version"
)

var (
	// outputPath is the destination zip file.
	outputPath string
	// workDir overrides where temporary staging trees are created.
	workDir string
	// sevenZipPath is the archiver executable path or command name.
	sevenZipPath string
	// configPath to the configuration YAML file.
	configPath string
	// timeout bounds each HTTP request.
	timeout time.Duration
	// logLevel selects the minimum logging level.
	logLevel string

	// rootCmd represents the base command for fetching and repackaging
	// the Windows Mono support package.
	rootCmd = &cobra.Command{
		Use:   "unity-mono-fetcher [version]",
		Short: "Download and repackage the Unity Windows Mono support package",
		Long: "Locate the Windows Mono Support installer for a Unity editor version, " +
			"download it, extract the managed assemblies with 7-Zip and place them " +
			"into a flat zip archive.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			editorVersion := fetcher.DefaultVersion
			if len(args) > 0 {
				editorVersion = args[0]
			}

			options := &fetcher.Options{
				Version:      editorVersion,
				OutputPath:   outputPath,
				WorkDir:      workDir,
				SevenZipPath: sevenZipPath,
				ConfigPath:   configPath,
				Timeout:      timeout,
			}

			return fetcher.Run(ctx, options)
		},
	}
)

// Execute runs the unity-mono-fetcher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"destination zip file (defaults to <normalized version>.zip)")
	rootCmd.Flags().StringVar(&workDir, "workdir", "",
		"directory for temporary files (defaults to the system temp)")
	rootCmd.Flags().StringVar(&sevenZipPath, "seven-zip", config.SevenZipFromEnv(),
		"path to the 7z executable (defaults to $"+config.SevenZipEnvVar+" or \""+config.DefaultSevenZipName+"\")")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0,
		"per-request HTTP timeout (0 disables the explicit timeout)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info",
		"logging level (debug, info, warn, error)")
}
