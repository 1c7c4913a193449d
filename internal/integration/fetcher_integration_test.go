package integration

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/unity-mono-fetcher/internal/config"
	"github.com/oshokin/unity-mono-fetcher/internal/service/fetcher"
)

// stubArchiverScript fakes both 7z invocations: extracting the installer
// drops a payload container, extracting the container drops a Data/Managed
// tree with two assemblies.
const stubArchiverScript = `#!/bin/sh
dir=""
for arg in "$@"; do
	case "$arg" in
	-o*) dir="${arg#-o}" ;;
	esac
done
case "$2" in
*.pkg)
	: > "$dir/Payload~"
	;;
*)
	mkdir -p "$dir/Unity/Data/Managed"
	printf 'foo-contents' > "$dir/Unity/Data/Managed/Foo.dll"
	printf 'bar-contents' > "$dir/Unity/Data/Managed/Bar.dll"
	;;
esac
exit 0
`

// TestFetcher_Run_FallbackPageEndToEnd drives the whole pipeline: the page
// for the exact version is missing, the normalized fallback page carries the
// link, a stub archiver unpacks the staged trees, and the default output
// archive is named after the normalized version.
//
//nolint:funlen // Integration test requires comprehensive setup and verification.
func TestFetcher_Run_FallbackPageEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub archiver scripts require a POSIX shell")
	}

	// Setup test directory and change working directory so the default
	// output name lands somewhere disposable.
	dir := t.TempDir()

	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	const (
		editorVersion = "9.9.9f1"
		shortVersion  = "9.9.9"
	)

	// Setup HTTP server standing in for both the release page host and the
	// download host.
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)

	defer ts.Close()

	downloadHost := ts.URL + "/download_unity/"
	installerPath := "/download_unity/abc123def/MacEditorTargetInstaller/" +
		"UnitySetup-Windows-Mono-Support-for-Editor-" + editorVersion + ".pkg"

	mux.HandleFunc("/whats-new/"+editorVersion, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/whats-new/"+shortVersion, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, `<html><a href="%s">Windows Mono Support</a></html>`, ts.URL+installerPath)
	})
	mux.HandleFunc(installerPath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fake installer bytes"))
	})

	// Create stub archiver executable.
	archiverPath := filepath.Join(dir, "7z")
	require.NoError(t, os.WriteFile(archiverPath, []byte(stubArchiverScript), 0o755))

	// Create configuration file pointing at the test server.
	cfgPath := filepath.Join(dir, config.DefaultConfigFilename)
	cfg := &config.Config{
		SevenZipPath: archiverPath,
		WorkDir:      dir,
		PageBaseURL:  ts.URL + "/whats-new/",
		DownloadHost: downloadHost,
		Timeout:      10 * time.Second,
	}

	require.NoError(t, config.Save(cfgPath, cfg))

	// Run the pipeline with timeout context.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	options := &fetcher.Options{
		Version:    editorVersion,
		ConfigPath: cfgPath,
	}

	require.NoError(t, fetcher.Run(ctx, options))

	// The default output name derives from the normalized version.
	outputPath := filepath.Join(dir, shortVersion+".zip")

	reader, err := zip.OpenReader(outputPath)
	require.NoError(t, err)

	defer func() {
		_ = reader.Close()
	}()

	want := map[string]string{
		"Foo.dll": "foo-contents",
		"Bar.dll": "bar-contents",
	}

	require.Len(t, reader.File, len(want))

	for _, entry := range reader.File {
		rc, openErr := entry.Open()
		require.NoError(t, openErr)

		contents, readErr := io.ReadAll(rc)
		require.NoError(t, readErr)
		require.NoError(t, rc.Close())

		require.Equal(t, want[entry.Name], string(contents))
	}

	// The staging tree is gone; only the stub archiver, the settings file
	// and the archive remain in the working directory.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		if entry.IsDir() {
			require.NotContains(t, entry.Name(), "unity-mono-fetcher-",
				"staging directory should have been removed")
		}
	}
}

// TestFetcher_Run_EmptyVersion rejects a blank version before touching the network.
func TestFetcher_Run_EmptyVersion(t *testing.T) {
	t.Parallel()

	err := fetcher.Run(context.Background(), &fetcher.Options{Version: "   "})
	require.Error(t, err)
}
