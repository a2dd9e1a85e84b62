package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes content to rel inside root, creating missing parent
// directories. The file is written to a temporary sibling first and then
// renamed over the destination, so readers never observe a partial module.
// It returns the full path of the written file.
func WriteFile(root, rel string, content []byte) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("output path %q must be relative and stay inside %s", rel, root)
	}
	path := filepath.Join(root, filepath.FromSlash(rel))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to set mode of %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move generated file into place at %s: %w", path, err)
	}
	return path, nil
}
