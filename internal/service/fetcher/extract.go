package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oshokin/unity-mono-fetcher/internal/logger"
)

const (
	// pkgStageDirName holds the unpacked installer package.
	pkgStageDirName = "pkg"
	// payloadStageDirName accumulates contents of the inner payload containers.
	payloadStageDirName = "payload"
	// payloadGlobPattern matches the nested payload containers inside a
	// macOS installer package.
	payloadGlobPattern = "Payload~*"

	// stageDirPermissions is used for staging directories under the work root.
	stageDirPermissions os.FileMode = 0o755
)

// extractPayload unpacks the downloaded installer in two phases: the pkg
// itself into the first staging directory, then every Payload~ container
// found there into the second. It returns the payload staging directory.
func (f *fetcher) extractPayload(ctx context.Context, workRoot, pkgPath string) (string, error) {
	pkgStage := filepath.Join(workRoot, pkgStageDirName)
	payloadStage := filepath.Join(workRoot, payloadStageDirName)

	for _, dir := range []string{pkgStage, payloadStage} {
		if err := os.MkdirAll(dir, stageDirPermissions); err != nil {
			return "", fmt.Errorf("create staging directory: %w", err)
		}
	}

	if err := f.runSevenZip(ctx, pkgPath, pkgStage); err != nil {
		return "", err
	}

	payloads, err := filepath.Glob(filepath.Join(pkgStage, payloadGlobPattern))
	if err != nil {
		return "", err
	}

	if len(payloads) == 0 {
		return "", errNoPayload
	}

	// Sequential on purpose: containers accumulate into one tree.
	for _, payload := range payloads {
		if err = f.runSevenZip(ctx, payload, payloadStage); err != nil {
			return "", err
		}
	}

	return payloadStage, nil
}

// runSevenZip extracts one archive into the output directory, overwriting
// existing contents. A missing executable is reported as a configuration
// error; a non-zero exit carries the exit code.
func (f *fetcher) runSevenZip(ctx context.Context, archivePath, outputDir string) error {
	args := []string{"x", archivePath, "-o" + outputDir, "-y"}
	logger.InfoKV(ctx, "Running archiver",
		"command", f.cfg.SevenZipPath, "args", strings.Join(args, " "))

	output, err := exec.CommandContext(ctx, f.cfg.SevenZipPath, args...).CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s: %w", f.cfg.SevenZipPath, errArchiverNotFound)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: exit code %d", errArchiverFailed, exitErr.ExitCode())
		}

		return fmt.Errorf("run archiver: %w", err)
	}

	logger.Debugf(ctx, "Archiver output: %s", output)

	return nil
}
