// Package sync reconciles stored cards with their sources.
package sync

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/knol"
	"github.com/conorfennell/flashdeck/internal/parser"
	"github.com/conorfennell/flashdeck/internal/storage"
)

// Report summarises a sync of one or more sources.
type Report struct {
	Sources  int
	Parsed   int
	Inserted int
	Deleted  int
	Errors   []error
}

func (r *Report) add(other Report) {
	r.Sources += other.Sources
	r.Parsed += other.Parsed
	r.Inserted += other.Inserted
	r.Deleted += other.Deleted
	r.Errors = append(r.Errors, other.Errors...)
}

// Options controls a sync run.
type Options struct {
	// ReposDir is where git sources are checked out.
	ReposDir string
	// Progress receives git progress output. It may be nil.
	Progress io.Writer
}

// Run iterates over all sources and reconciles them. Failures of a single
// source are recorded in the report; only failing to list the sources or
// to prepare ReposDir aborts the run.
func Run(ctx context.Context, db *storage.DB, opts Options) (Report, error) {
	slog.Info("Starting sync process for all sources...")
	var report Report

	sources, err := db.GetAllSources(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with `flashdeck source add <path/or/url.git>`")
		return report, nil
	}

	if err := os.MkdirAll(opts.ReposDir, 0o755); err != nil {
		return report, fmt.Errorf("failed to create repos directory: %w", err)
	}

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		slog.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		dir := source.Path
		if source.Type == storage.SourceGit {
			localRepoPath, err := gitsource.LocalPath(opts.ReposDir, source.Path)
			if err != nil {
				slog.Error("Error determining local path for git repo", "url", source.Path, "error", err)
				report.Errors = append(report.Errors, err)
				continue
			}
			if err := gitsource.Sync(ctx, source.Path, localRepoPath, opts.Progress); err != nil {
				slog.Error("Error syncing git repo", "url", source.Path, "error", err)
				report.Errors = append(report.Errors, err)
				continue
			}
			dir = localRepoPath
		}

		report.add(reconcile(ctx, db, source.ID, dir))
	}

	slog.Info("Sync process complete.",
		"sources", report.Sources,
		"inserted", report.Inserted,
		"deleted", report.Deleted,
		"errors", len(report.Errors),
	)
	return report, nil
}

// reconcile parses every deck file under dir, inserts cards that are new
// and deletes stored cards of the source that no longer appear. Stored cards
// are only deleted when every deck file parsed: a card missing from a file
// that failed to parse has not left the source.
func reconcile(ctx context.Context, db *storage.DB, sourceID int64, dir string) Report {
	report := Report{Sources: 1}
	found := make(map[string]bool)
	failed := 0

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !parser.IsDeckFile(path) {
			return nil
		}

		fileCards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			failed++
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		for _, card := range fileCards {
			card.Hash = knol.Hash(card)
			report.Parsed++
			if found[card.Hash] {
				continue
			}
			found[card.Hash] = true

			if inserted, err := insertIfNew(ctx, db, card, sourceID); err != nil {
				report.Errors = append(report.Errors, err)
			} else if inserted {
				slog.Debug("New card found, inserting", "hash", card.Hash)
				report.Inserted++
			}
		}
		return nil
	})

	if walkErr != nil {
		slog.Error("Error walking directory", "path", dir, "error", walkErr)
		report.Errors = append(report.Errors, fmt.Errorf("walking %s: %w", dir, walkErr))
		return report
	}

	if failed > 0 {
		slog.Warn("Keeping stored cards, some deck files failed to parse", "path", dir, "failed_files", failed)
	} else {
		deleted, errs := deleteOrphans(ctx, db, sourceID, found)
		report.Deleted += deleted
		report.Errors = append(report.Errors, errs...)
	}

	if err := db.UpdateSourceLastScanned(ctx, sourceID); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", sourceID, "error", err)
	}

	slog.Info("Reconciliation complete",
		"path", dir,
		"parsed_cards", report.Parsed,
		"inserted", report.Inserted,
		"orphaned_deleted", report.Deleted,
		"errors", len(report.Errors),
	)
	return report
}

// deleteOrphans removes the source's stored cards whose hash is not in found.
func deleteOrphans(ctx context.Context, db *storage.DB, sourceID int64, found map[string]bool) (int, []error) {
	stored, err := db.GetCardsBySourceID(ctx, sourceID)
	if err != nil {
		return 0, []error{err}
	}

	deleted := 0
	var errs []error
	for _, card := range stored {
		if found[card.Hash] {
			continue
		}
		slog.Info("Orphaned card, deleting", "hash", card.Hash)
		if err := db.DeleteCardByHash(ctx, card.Hash, sourceID); err != nil {
			slog.Warn("Failed to delete orphaned card", "hash", card.Hash, "error", err)
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	return deleted, errs
}

func insertIfNew(ctx context.Context, db *storage.DB, card domain.Card, sourceID int64) (bool, error) {
	existing, err := db.FindCardByHash(ctx, card.Hash, sourceID)
	if err != nil {
		return false, fmt.Errorf("db check for %s: %w", card.Hash, err)
	}
	if existing != nil {
		return false, nil
	}
	if err := db.InsertCard(ctx, card, sourceID); err != nil {
		return false, fmt.Errorf("db insert for %s: %w", card.Hash, err)
	}
	return true, nil
}
