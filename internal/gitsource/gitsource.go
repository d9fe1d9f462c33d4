package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Sync clones a git repository if it doesn't exist at localPath, or pulls
// the latest changes if it does. Progress output goes to progress, which
// may be nil.
func Sync(ctx context.Context, repoURL, localPath string, progress io.Writer) error {
	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Info("Cloning repository", "url", repoURL, "path", localPath)
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL:      repoURL,
			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
		slog.Info("Clone successful", "path", localPath)

	case err == nil:
		slog.Info("Pulling latest changes", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}

		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}

		err = worktree.PullContext(ctx, &git.PullOptions{
			RemoteName: "origin",
			Progress:   progress,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
		slog.Info("Pull successful (or already up-to-date)", "path", localPath)

	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}

// IsGitURL reports whether a source path names a remote git repository
// rather than a local directory: an http(s), ssh or git URL with a host, or
// scp-like user@host:path syntax. A local directory stays local whatever
// its name, including one ending in ".git".
func IsGitURL(path string) bool {
	if u, err := url.Parse(path); err == nil && remoteSchemes[u.Scheme] {
		return u.Host != ""
	}
	_, _, ok := splitSCP(path)
	return ok
}

var remoteSchemes = map[string]bool{
	"https": true,
	"http":  true,
	"ssh":   true,
	"git":   true,
}

// LocalPath maps a repository URL to a checkout directory under baseDir,
// e.g. https://github.com/a/b.git, ssh://git@github.com/a/b.git and
// git@github.com:a/b.git all map to baseDir/github.com/a/b.
func LocalPath(baseDir, repoURL string) (string, error) {
	if u, err := url.Parse(repoURL); err == nil && remoteSchemes[u.Scheme] {
		if u.Hostname() == "" {
			return "", fmt.Errorf("could not parse git URL: %s", repoURL)
		}
		return safeJoin(baseDir, u.Hostname(), strings.TrimSuffix(u.Path, ".git"))
	}
	if host, repoPath, ok := splitSCP(repoURL); ok {
		return safeJoin(baseDir, host, strings.TrimSuffix(repoPath, ".git"))
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}

// splitSCP splits scp-like user@host:path syntax.
func splitSCP(s string) (host, repoPath string, ok bool) {
	if strings.Contains(s, "://") {
		return "", "", false
	}
	user, rest, ok := strings.Cut(s, "@")
	if !ok || user == "" || strings.ContainsAny(user, "/:") {
		return "", "", false
	}
	host, repoPath, ok = strings.Cut(rest, ":")
	if !ok || host == "" || repoPath == "" || strings.ContainsAny(host, "/") || strings.Contains(repoPath, ":") {
		return "", "", false
	}
	return host, repoPath, true
}

// safeJoin joins the parts and rejects results that escape baseDir.
func safeJoin(baseDir, host, repoPath string) (string, error) {
	joined := filepath.Join(baseDir, host, repoPath)
	rel, err := filepath.Rel(baseDir, joined)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("git URL escapes repos directory: %s/%s", host, repoPath)
	}
	return joined, nil
}
