package storage

const schema = `
-- The 'sources' table tracks where cards come from: a local directory or a git repository.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local', -- 'local' or 'git'
    last_scanned DATETIME
);

-- The 'cards' table stores each card in its single-line prompt|answer|tags form.
-- A card found in several sources has one row per source.
CREATE TABLE IF NOT EXISTS cards (
    hash TEXT NOT NULL,
    line TEXT NOT NULL,
    source_id INTEGER NOT NULL,

    PRIMARY KEY (hash, source_id),
    FOREIGN KEY(source_id) REFERENCES sources(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_cards_source ON cards(source_id);

-- The 'runs' table records each pass through a deck that reached exhaustion.
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY, -- ULID
    deck TEXT NOT NULL,
    questions INTEGER NOT NULL,
    attempts INTEGER NOT NULL,
    started_at DATETIME NOT NULL,
    finished_at DATETIME NOT NULL
);
`
