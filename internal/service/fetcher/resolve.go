package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/oshokin/unity-mono-fetcher/internal/logger"
)

// pageAnchor jumps to the installs section of the release-notes page.
const pageAnchor = "#installs"

// buildSuffixPattern matches the trailing build suffix of a Unity version
// string, e.g. the "f2" in "6000.0.58f2".
var buildSuffixPattern = regexp.MustCompile(`[a-z]\d+$`)

// NormalizeVersion strips the trailing build suffix from a version string,
// producing the short form used by fallback page URLs and default output
// names. Versions without a suffix are returned unchanged, so the function
// is idempotent.
func NormalizeVersion(version string) string {
	return buildSuffixPattern.ReplaceAllString(version, "")
}

// resolveInstallerURL scrapes the release-notes page for the Windows Mono
// support installer link. When the page for the exact version is missing,
// it retries once with the normalized version; the link itself must always
// carry the exact original version.
func (f *fetcher) resolveInstallerURL(ctx context.Context) (string, error) {
	pageURL := f.cfg.PageBaseURL + f.version + pageAnchor
	logger.InfoKV(ctx, "Fetching release page", "url", pageURL)

	page, statusCode, err := f.fetchPage(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch release page: %w", err)
	}

	if statusCode == http.StatusNotFound {
		// Unity omits the build suffix from some release page URLs.
		fallbackURL := f.cfg.PageBaseURL + NormalizeVersion(f.version) + pageAnchor
		logger.InfoKV(ctx, "Primary page missing, trying fallback", "url", fallbackURL)

		page, statusCode, err = f.fetchPage(ctx, fallbackURL)
		if err != nil {
			return "", fmt.Errorf("fetch fallback page: %w", err)
		}

		pageURL = fallbackURL
	}

	if statusCode != http.StatusOK {
		return "", fmt.Errorf("%s: status %d: %w", pageURL, statusCode, errBadHTTPStatus)
	}

	match := f.installerLinkPattern().FindString(page)
	if match == "" {
		return "", errLinkNotFound
	}

	logger.InfoKV(ctx, "Found installer", "url", match)

	return match, nil
}

// installerLinkPattern builds the case-insensitive pattern an installer
// link must satisfy: the download host, a hash segment, any intermediate
// path and the installer filename for the exact requested version.
func (f *fetcher) installerLinkPattern() *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)` + regexp.QuoteMeta(f.cfg.DownloadHost) +
			`[0-9a-f]+/.+?` + regexp.QuoteMeta(installerFilename(f.version)),
	)
}

// fetchPage issues a GET request and returns the body as UTF-8 text with
// undecodable bytes replaced, together with the response status code.
func (f *fetcher) fetchPage(ctx context.Context, pageURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", 0, err
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)

	response, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", 0, err
	}

	return strings.ToValidUTF8(string(body), "�"), response.StatusCode, nil
}
