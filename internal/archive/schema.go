package archive

// schemaVersion bumps whenever the table layout changes; the archive is
// transient enough that users drop the database to adopt a new schema.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pia_records (
    kind          TEXT    NOT NULL,
    path          TEXT    NOT NULL,
    idx           INTEGER NOT NULL,
    file_number   INTEGER NOT NULL,
    n_spots_total INTEGER NOT NULL,
    n_spots_4a    INTEGER NOT NULL,
    created_at    TEXT    NOT NULL,
    PRIMARY KEY (kind, path, idx)
);

CREATE INDEX IF NOT EXISTS idx_pia_records_file
    ON pia_records (kind, path);
`
