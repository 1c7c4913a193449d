package fetcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/unity-mono-fetcher/internal/logger"
)

const (
	// markerFilename marks that a fetcher run owns the staging area,
	// to avoid parallel runs trampling the same working directory.
	markerFilename = "unity-mono-fetcher-marker.bin"

	// markerLifetime is the period after which a leftover marker is
	// considered stale. Generous because installer downloads are large.
	markerLifetime = time.Hour
)

// acquireRunMarker claims the staging area rooted at markerDir by creating
// a marker file. A fresh marker from another run aborts this one; a stale
// marker triggers recovery: lingering fetcher processes are killed and the
// marker is reclaimed.
func acquireRunMarker(ctx context.Context, markerDir string) error {
	path := filepath.Join(markerDir, markerFilename)

	fileInfo, err := os.Stat(path)

	switch {
	case err == nil:
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return errAlreadyRunning
		}

		logger.Info(ctx, "Run marker is stale, attempting cleanup")

		if err = terminateStaleRuns(); err != nil {
			return errAlreadyRunning
		}

		if err = os.Remove(path); err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
		// No previous run.
	default:
		return err
	}

	marker, err := os.Create(path)
	if err != nil {
		return err
	}

	return marker.Close()
}

// releaseRunMarker removes the marker file. Best effort.
func releaseRunMarker(markerDir string) {
	_ = os.Remove(filepath.Join(markerDir, markerFilename))
}

// terminateStaleRuns kills other processes sharing this executable's name.
func terminateStaleRuns() error {
	executablePath, err := os.Executable()
	if err != nil {
		return err
	}

	executableName := filepath.Base(executablePath)

	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != executableName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
