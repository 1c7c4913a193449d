package fetcher

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// makeArchive writes every regular file under sourceDir into a flat zip
// archive at outputPath, each entry named by base name only. Entries are
// written in sorted full-path order, so the duplicate that triggers a
// collision error is deterministic. On any failure the partial archive is
// removed; a partial file is never valid output.
func makeArchive(sourceDir, outputPath string) (err error) {
	var files []string

	err = filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.Type().IsRegular() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errEmptyManaged
	}

	sort.Strings(files)

	output, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = output.Close()
			_ = os.Remove(outputPath)
		}
	}()

	archive := zip.NewWriter(output)
	seenNames := make(map[string]struct{}, len(files))

	for _, path := range files {
		name := filepath.Base(path)
		if _, found := seenNames[name]; found {
			return fmt.Errorf("%w: %s", errDuplicateFileName, name)
		}

		seenNames[name] = struct{}{}

		if err = writeArchiveEntry(archive, path, name); err != nil {
			return err
		}
	}

	if err = archive.Close(); err != nil {
		return err
	}

	return output.Close()
}

// writeArchiveEntry stores one file under the given entry name using the
// deflate method.
func writeArchiveEntry(archive *zip.Writer, path, name string) error {
	entry, err := archive.Create(name)
	if err != nil {
		return err
	}

	source, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	if _, err = io.Copy(entry, source); err != nil {
		_ = source.Close()

		return err
	}

	return source.Close()
}
