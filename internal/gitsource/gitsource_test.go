package gitsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{"https", "https://github.com/conorfennell/cards.git", filepath.Join("repos", "github.com", "conorfennell", "cards"), false},
		{"https without suffix", "https://gitlab.com/a/b", filepath.Join("repos", "gitlab.com", "a", "b"), false},
		{"scp style", "git@github.com:conorfennell/cards.git", filepath.Join("repos", "github.com", "conorfennell", "cards"), false},
		{"ssh", "ssh://git@github.com/conorfennell/cards.git", filepath.Join("repos", "github.com", "conorfennell", "cards"), false},
		{"ssh with port", "ssh://git@example.com:2222/team/cards.git", filepath.Join("repos", "example.com", "team", "cards"), false},
		{"local bare repo name", "/srv/cards.git", "", true},
		{"local path", "/home/me/cards", "", true},
		{"no host", "https:///cards.git", "", true},
		{"escapes base", "git@evil.com:../../etc", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error for %q, but got path %q", tc.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LocalPath(%q) returned an unexpected error: %v", tc.url, err)
			}
			if got != tc.expected {
				t.Errorf("Expected '%s', but got '%s'", tc.expected, got)
			}
		})
	}
}

func TestIsGitURL(t *testing.T) {
	for path, want := range map[string]bool{
		"https://github.com/a/b":  true,
		"git@github.com:a/b.git":  true,
		"/srv/cards.git":          false,
		"decks.git":               false,
		"/home/me/cards":          false,
		"relative/dir":            false,
		"http://example.com/repo": true,
		"ssh://host/x.git":        true,
		"git://host/x.git":        true,
		"https:///x.git":          false,
	} {
		if got := IsGitURL(path); got != want {
			t.Errorf("IsGitURL(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestSyncRejectsNonRepository(t *testing.T) {
	// An existing directory that is not a git checkout cannot be pulled.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cards.md"), []byte("Q: a\nA: b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Sync(context.Background(), "https://example.invalid/x.git", dir, nil); err == nil {
		t.Error("Expected an error syncing into a non-git directory")
	}
}
