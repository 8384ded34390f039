package store

// migrations holds the schema history. Entry i upgrades user_version i to
// i+1; append new versions, never edit applied ones.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS goals (
			kind          TEXT PRIMARY KEY,
			target_amount REAL NOT NULL,
			target_days   INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			kind          TEXT NOT NULL REFERENCES goals(kind) ON DELETE CASCADE,
			id            INTEGER NOT NULL,
			total_amount  REAL NOT NULL,
			PRIMARY KEY (kind, id)
		)`,
		`CREATE TABLE IF NOT EXISTS daily_logs (
			day           INTEGER PRIMARY KEY,
			amount        REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS log_thresholds (
			day           INTEGER PRIMARY KEY REFERENCES daily_logs(day) ON DELETE CASCADE,
			min_k         REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key           TEXT PRIMARY KEY,
			value         TEXT NOT NULL
		)`,
	},
	{
		`ALTER TABLE daily_logs ADD COLUMN logged_at TEXT`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_kind ON blocks(kind)`,
	},
	{
		// Per-day log times are not tracked.
		`ALTER TABLE daily_logs DROP COLUMN logged_at`,
	},
}

// SchemaVersion is the user_version a fully migrated database reports.
var SchemaVersion = len(migrations)
