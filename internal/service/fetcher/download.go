package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/oshokin/unity-mono-fetcher/internal/logger"
)

// downloadFile streams the resource at the given URL into the destination
// file. Partial files are not cleaned up here; the staging directory
// lifetime discards them together with everything else.
func (f *fetcher) downloadFile(ctx context.Context, fileURL, destination string) error {
	logger.InfoKV(ctx, "Downloading installer", "url", fileURL, "path", destination)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)

	response, err := f.client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d: %w", fileURL, response.StatusCode, errBadHTTPStatus)
	}

	output, err := os.Create(destination)
	if err != nil {
		return err
	}

	if _, err = io.Copy(output, response.Body); err != nil {
		_ = output.Close()

		return err
	}

	return output.Close()
}
