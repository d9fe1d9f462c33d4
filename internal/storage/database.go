package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/parser"
)

// Source types.
const (
	SourceLocal = "local"
	SourceGit   = "git"
)

// ErrSourceNotFound is returned when a source ID does not exist.
var ErrSourceNotFound = errors.New("source not found")

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// Open creates a new database connection and ensures the schema is up to date.
// The parent directory of dsn is created if needed.
func Open(dsn string) (*DB, error) {
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn+"?_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{
		conn:    conn,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Source represents a card source, either a local path or a Git URL.
type Source struct {
	ID          int64
	Path        string
	Type        string
	LastScanned sql.NullTime
}

// InsertSource inserts a new source into the database and returns its ID.
func (db *DB) InsertSource(ctx context.Context, path, sourceType string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO sources (path, type)
		VALUES (?, ?)
	`, path, sourceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source from the database by its path.
// It returns nil if there is no such source.
func (db *DB) FindSourceByPath(ctx context.Context, path string) (*Source, error) {
	var s Source
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, path, type, last_scanned
		FROM sources WHERE path = ?
	`, path)

	err := row.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Source not found
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return &s, nil
}

// GetAllSources retrieves all stored sources, oldest first.
func (db *DB) GetAllSources(ctx context.Context) ([]Source, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, path, type, last_scanned
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source and all of its cards.
func (db *DB) DeleteSource(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source ID %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("source ID %d: %w", id, ErrSourceNotFound)
	}
	return nil
}

// UpdateSourceLastScanned updates the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(ctx context.Context, sourceID int64) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE sources
		SET last_scanned = ?
		WHERE id = ?
	`, time.Now().UTC(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}

// InsertCard stores a card under its hash. The card must already be hashed.
func (db *DB) InsertCard(ctx context.Context, card domain.Card, sourceID int64) error {
	if card.Hash == "" {
		return fmt.Errorf("failed to insert card %q: missing hash", card.Prompt)
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO cards (hash, line, source_id)
		VALUES (?, ?, ?)
	`, card.Hash, parser.FormatLine(card), sourceID)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", card.Hash, err)
	}
	return nil
}

// FindCardByHash retrieves a card stored for a source by its hash.
// It returns nil if the source has no such card.
func (db *DB) FindCardByHash(ctx context.Context, hash string, sourceID int64) (*domain.Card, error) {
	var line string
	err := db.conn.QueryRowContext(ctx, `
		SELECT line FROM cards WHERE hash = ? AND source_id = ?
	`, hash, sourceID).Scan(&line)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Card not found
		}
		return nil, fmt.Errorf("failed to find card by hash %s: %w", hash, err)
	}
	card, err := decodeCard(hash, line)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCardsBySourceID retrieves all cards associated with a specific source ID.
func (db *DB) GetCardsBySourceID(ctx context.Context, sourceID int64) ([]domain.Card, error) {
	return db.queryCards(ctx, `
		SELECT hash, line FROM cards WHERE source_id = ? ORDER BY rowid
	`, sourceID)
}

// GetAllCards retrieves every distinct card in insertion order. A card held
// by several sources is returned once, as first stored.
func (db *DB) GetAllCards(ctx context.Context) ([]domain.Card, error) {
	return db.queryCards(ctx, `
		SELECT hash, line FROM cards
		WHERE rowid IN (SELECT MIN(rowid) FROM cards GROUP BY hash)
		ORDER BY rowid
	`)
}

func (db *DB) queryCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var hash, line string
		if err := rows.Scan(&hash, &line); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		card, err := decodeCard(hash, line)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func decodeCard(hash, line string) (domain.Card, error) {
	card, err := parser.ParseLine(line)
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to decode card %s: %w", hash, err)
	}
	card.Hash = hash
	return card, nil
}

// DeleteCardByHash removes a source's card by its hash. Copies of the card
// held by other sources are kept.
func (db *DB) DeleteCardByHash(ctx context.Context, hash string, sourceID int64) error {
	_, err := db.conn.ExecContext(ctx, `
		DELETE FROM cards
		WHERE hash = ? AND source_id = ?
	`, hash, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete card with hash %s: %w", hash, err)
	}
	return nil
}

// InsertRun records a finished run and returns it with its new ID.
func (db *DB) InsertRun(ctx context.Context, run domain.Run) (domain.Run, error) {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	db.mu.Lock()
	run.ID = ulid.MustNew(ulid.Timestamp(run.FinishedAt), db.entropy).String()
	db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO runs (id, deck, questions, attempts, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Deck, run.Questions, run.Attempts, run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return domain.Run{}, fmt.Errorf("failed to insert run for deck %s: %w", run.Deck, err)
	}
	return run, nil
}

// RecordRun implements web.RunRecorder.
func (db *DB) RecordRun(ctx context.Context, run domain.Run) error {
	_, err := db.InsertRun(ctx, run)
	return err
}

// RecentRuns returns up to limit runs, most recently finished first.
func (db *DB) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, deck, questions, attempts, started_at, finished_at
		FROM runs ORDER BY finished_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		if err := rows.Scan(&r.ID, &r.Deck, &r.Questions, &r.Attempts, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
