package store

const schema = `
CREATE TABLE IF NOT EXISTS doctor_runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    output TEXT NOT NULL,
    deprecated TEXT NOT NULL,
    error TEXT
);

CREATE TABLE IF NOT EXISTS removals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    package TEXT NOT NULL,
    removed_at TEXT NOT NULL,
    output TEXT,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_doctor_runs_finished ON doctor_runs(finished_at);
CREATE INDEX IF NOT EXISTS idx_removals_package ON removals(package);
CREATE INDEX IF NOT EXISTS idx_removals_removed ON removals(removed_at);
`
