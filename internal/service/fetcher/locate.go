package fetcher

import (
	"io/fs"
	"path/filepath"
)

const (
	// managedDirName is the directory holding the managed assemblies.
	managedDirName = "Managed"
	// expectedParentName is the conventional parent of the true Managed
	// directory inside the installer layout.
	expectedParentName = "Data"
)

// locateManaged finds the Managed directory inside the payload tree.
// A candidate nested directly under a Data directory wins; otherwise the
// first candidate in lexical walk order is accepted, which tolerates minor
// layout drift across editor versions and keeps the choice deterministic.
func locateManaged(payloadDir string) (string, error) {
	var candidates []string

	err := filepath.WalkDir(payloadDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() && entry.Name() == managedDirName {
			candidates = append(candidates, path)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	for _, candidate := range candidates {
		if filepath.Base(filepath.Dir(candidate)) == expectedParentName {
			return candidate, nil
		}
	}

	if len(candidates) > 0 {
		return candidates[0], nil
	}

	return "", errManagedNotFound
}
