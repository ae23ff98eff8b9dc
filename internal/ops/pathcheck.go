package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"montage/internal/errors"
)

// validateCutlistPath checks a user-supplied cutlist path: no directory
// traversal, a .yaml/.yml extension, and no symlink at the final component.
// Returns the cleaned absolute path.
func validateCutlistPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInvalidRequest("path is required")
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", errors.NewInvalidRequest("path must not contain directory traversal (..)")
		}
	}

	cleaned := filepath.Clean(path)
	switch filepath.Ext(cleaned) {
	case ".yaml", ".yml":
	default:
		return "", errors.NewInvalidRequest("path must have a .yaml or .yml extension")
	}

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", errors.NewInvalidRequest("path must not be a symlink")
	}

	return abs, nil
}
