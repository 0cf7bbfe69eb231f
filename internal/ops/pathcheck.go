package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/atext2csv/internal/errors"
)

// ValidateInput checks that path names an existing regular file and returns
// its info.
func ValidateInput(path string) (os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewInvalidRequest("input path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to stat input: %w", err))
	}
	if info.IsDir() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("%s is a directory", path))
	}
	return info, nil
}

// ValidateOutputDir checks that dir is usable as an output directory. An empty
// dir means the current directory. A missing dir is created on export.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewInternal(fmt.Errorf("failed to stat output directory: %w", err))
	}
	if !info.IsDir() {
		return errors.NewInvalidRequest(fmt.Sprintf("output path %s is not a directory", dir))
	}
	return nil
}

// ValidateRemotePath applies the stricter rules used for paths supplied over
// MCP: the path must be absolute and must not contain ".." components.
func ValidateRemotePath(path string) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}
	if !filepath.IsAbs(path) {
		return errors.NewInvalidRequest("path must be absolute")
	}
	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check for forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename sanitizes a string for safe use in a filename.
// Removes/replaces characters that could be used for path traversal or injection.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	// Remove null bytes and other control characters
	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		s = "atext"
	}
	return s
}
