package git

import (
	"fmt"
	"path/filepath"

	"github.com/scan-io-git/issue-tracker/pkg/shared/files"
)

// ScopeKey returns the cache key of a file: its slash separated path relative
// to root. Relative paths are taken as relative to root already.
func ScopeKey(root, path string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("repository root is not set")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	absPath, err := files.EnsureWithinRoot(root, path)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." {
		return "", fmt.Errorf("path %q is not a file under %q", path, absRoot)
	}
	return filepath.ToSlash(rel), nil
}
