package sarif

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scan-io-git/issue-tracker/internal/git"
)

func TestNormalisedSubfolder(t *testing.T) {
	tests := []struct {
		name     string
		metadata *git.RepositoryMetadata
		expected string
	}{
		{
			name:     "nil metadata",
			metadata: nil,
			expected: "",
		},
		{
			name: "empty subfolder",
			metadata: &git.RepositoryMetadata{
				Subfolder: "",
			},
			expected: "",
		},
		{
			name: "subfolder with forward slash",
			metadata: &git.RepositoryMetadata{
				Subfolder: "apps/demo",
			},
			expected: "apps/demo",
		},
		{
			name: "subfolder with leading slash",
			metadata: &git.RepositoryMetadata{
				Subfolder: "/apps/demo",
			},
			expected: "apps/demo",
		},
		{
			name: "subfolder with trailing slash",
			metadata: &git.RepositoryMetadata{
				Subfolder: "apps/demo/",
			},
			expected: "apps/demo",
		},
		{
			name: "subfolder with backslash",
			metadata: &git.RepositoryMetadata{
				Subfolder: "apps\\demo",
			},
			expected: "apps/demo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalisedSubfolder(tt.metadata)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestPathWithin(t *testing.T) {
	tempDir := t.TempDir()

	subdir := filepath.Join(tempDir, "subdir")
	if err := os.Mkdir(subdir, 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		root     string
		expected bool
	}{
		{
			name:     "empty root always returns true",
			path:     "/any/path",
			root:     "",
			expected: true,
		},
		{
			name:     "path equals root",
			path:     tempDir,
			root:     tempDir,
			expected: true,
		},
		{
			name:     "path within root",
			path:     subdir,
			root:     tempDir,
			expected: true,
		},
		{
			name:     "path outside root",
			path:     tempDir,
			root:     subdir,
			expected: false,
		},
		{
			name:     "relative path within root",
			path:     filepath.Join(tempDir, ".", "subdir"),
			root:     tempDir,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PathWithin(tt.path, tt.root)
			if result != tt.expected {
				t.Errorf("PathWithin(%q, %q) = %v, expected %v", tt.path, tt.root, result, tt.expected)
			}
		})
	}
}


func TestResolveLocalPath(t *testing.T) {
	repo := t.TempDir()
	sub := filepath.Join(repo, "apps", "demo")
	if err := os.MkdirAll(filepath.Join(sub, "src"), 0o755); err != nil {
		t.Fatalf("failed to create subfolder: %v", err)
	}
	inSub := filepath.Join(sub, "src", "main.go")
	if err := os.WriteFile(inSub, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	atRoot := filepath.Join(repo, "go.mod")
	if err := os.WriteFile(atRoot, []byte("module demo\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	md := &git.RepositoryMetadata{RepoRootFolder: repo, Subfolder: "apps/demo"}

	tests := []struct {
		name     string
		uri      string
		md       *git.RepositoryMetadata
		source   string
		expected string
	}{
		{name: "absolute uri", uri: inSub, md: md, source: sub, expected: inSub},
		{name: "file scheme", uri: "file://" + inSub, md: md, source: sub, expected: inSub},
		{name: "relative to repository root", uri: "go.mod", md: md, source: sub, expected: atRoot},
		{name: "relative to scanned subfolder", uri: "src/main.go", md: md, source: sub, expected: inSub},
		{name: "missing file falls back to first base", uri: "src/gone.go", md: md, source: sub, expected: filepath.Join(repo, "src", "gone.go")},
		{name: "no metadata uses source folder", uri: "src/main.go", md: nil, source: sub, expected: inSub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLocalPath(tt.uri, tt.md, tt.source)
			if got != tt.expected {
				t.Fatalf("ResolveLocalPath(%q) = %q, expected %q", tt.uri, got, tt.expected)
			}
		})
	}
}
