package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transcripts (
    file_path       TEXT PRIMARY KEY,
    mtime_ns        INTEGER NOT NULL,
    size_bytes      INTEGER NOT NULL,
    input_tokens    INTEGER NOT NULL,
    output_tokens   INTEGER NOT NULL,
    cache_creation  INTEGER NOT NULL,
    cache_read      INTEGER NOT NULL,
    session_id      TEXT NOT NULL DEFAULT '',
    agent_id        TEXT NOT NULL DEFAULT '',
    slug            TEXT NOT NULL DEFAULT '',
    git_branch      TEXT NOT NULL DEFAULT '',
    task            TEXT NOT NULL DEFAULT '',
    parsed_at       TEXT NOT NULL
);
`
