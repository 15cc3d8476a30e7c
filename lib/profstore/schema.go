package profstore

const Schema = `
CREATE TABLE IF NOT EXISTS instructors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    name_normalized TEXT NOT NULL UNIQUE,
    department TEXT,
    external_source TEXT,
    external_id TEXT,
    ext_avg_rating REAL,
    ext_avg_difficulty REAL,
    ext_num_ratings INTEGER,
    ext_would_take_again REAL,
    ext_last_scraped TEXT
);
CREATE INDEX IF NOT EXISTS idx_instructors_external
    ON instructors (external_source, external_id);
`
