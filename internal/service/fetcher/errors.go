package fetcher

import "errors"

var (
	// errBadHTTPStatus indicates an HTTP response with an unexpected status code.
	errBadHTTPStatus = errors.New("unexpected http status")
	// errLinkNotFound indicates the release page carried no matching installer link.
	errLinkNotFound = errors.New("unable to locate the Windows Mono support download link")
	// errArchiverNotFound indicates the 7z executable is absent from the
	// execution path. This is a configuration error, not a data error.
	errArchiverNotFound = errors.New("7z executable not found, install 7-Zip/p7zip or pass --seven-zip")
	// errArchiverFailed indicates the 7z process exited with a non-zero status.
	errArchiverFailed = errors.New("7z command failed")
	// errNoPayload indicates the unpacked installer contained no payload container.
	errNoPayload = errors.New("no Payload~ file found after extracting the pkg installer")
	// errManagedNotFound indicates the payload tree holds no Managed directory.
	errManagedNotFound = errors.New("Managed directory not found inside payload")
	// errEmptyManaged indicates the Managed directory holds no files to package.
	errEmptyManaged = errors.New("Managed directory is empty, nothing to package")
	// errDuplicateFileName indicates two source files collide on base name.
	errDuplicateFileName = errors.New("duplicate file name encountered")
	// errAlreadyRunning indicates another fetcher run owns the staging area.
	errAlreadyRunning = errors.New("another fetcher run is already in progress")
	// errEmptyVersion indicates the caller supplied a blank version string.
	errEmptyVersion = errors.New("version must not be empty")
)
