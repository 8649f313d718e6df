package sarif

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/issue-tracker/internal/git"
)

// NormalisedSubfolder returns the subfolder of md with forward slashes and no
// leading or trailing slash, "" when md is nil.
func NormalisedSubfolder(md *git.RepositoryMetadata) string {
	if md == nil {
		return ""
	}
	sub := strings.Trim(md.Subfolder, "/\\")
	return strings.ReplaceAll(sub, "\\", "/")
}

// PathWithin reports whether path is root or lies below it. An empty root
// contains everything.
func PathWithin(path, root string) bool {
	if root == "" {
		return true
	}
	cleanPath, err1 := filepath.Abs(path)
	cleanRoot, err2 := filepath.Abs(root)
	if err1 != nil || err2 != nil {
		cleanPath = filepath.Clean(path)
		cleanRoot = filepath.Clean(root)
	}
	if cleanPath == cleanRoot {
		return true
	}
	return strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator))
}

// ResolveLocalPath maps a SARIF artifact URI to a file on disk.
//
// Absolute URIs are used as they are. Relative ones are tried against the
// repository root, the scanned subfolder and the source folder, in that
// order; the first existing file inside the repository wins. When none
// exists the first candidate inside the repository is returned.
func ResolveLocalPath(rawURI string, md *git.RepositoryMetadata, absSource string) string {
	cleanURI := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(strings.TrimSpace(rawURI), "file://")))
	if filepath.IsAbs(cleanURI) {
		return cleanURI
	}

	var repoRoot string
	if md != nil {
		repoRoot = strings.TrimSpace(md.RepoRootFolder)
	}

	var bases []string
	seen := map[string]struct{}{}
	addBase := func(base string) {
		if base == "" {
			return
		}
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if _, ok := seen[base]; ok {
			return
		}
		seen[base] = struct{}{}
		bases = append(bases, base)
	}
	addBase(repoRoot)
	if sub := NormalisedSubfolder(md); repoRoot != "" && sub != "" {
		addBase(filepath.Join(repoRoot, filepath.FromSlash(sub)))
	}
	addBase(absSource)

	var fallback string
	for _, base := range bases {
		candidate := filepath.Join(base, cleanURI)
		if !PathWithin(candidate, repoRoot) {
			continue
		}
		if fallback == "" {
			fallback = candidate
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	if fallback != "" {
		return fallback
	}
	return filepath.Join(absSource, cleanURI)
}

// firstPhysicalLocation returns the first location of res that names an
// artifact, nil when there is none.
func firstPhysicalLocation(res *sarif.Result) *sarif.PhysicalLocation {
	for _, loc := range res.Locations {
		if loc == nil || loc.PhysicalLocation == nil {
			continue
		}
		art := loc.PhysicalLocation.ArtifactLocation
		if art != nil && art.URI != nil && strings.TrimSpace(*art.URI) != "" {
			return loc.PhysicalLocation
		}
	}
	return nil
}
