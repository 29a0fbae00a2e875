// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for compounds, schedules, doses, and reminders.
package storage

// initSchema creates or updates the database schema.
// Timestamps are RFC3339 strings with offset; day lists are JSON arrays.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS compounds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		paused INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		peptide_name TEXT NOT NULL,
		compound_id TEXT,
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL,
		days_of_week TEXT NOT NULL DEFAULT '[]',
		time TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		notification_ids TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS doses (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		peptide_name TEXT NOT NULL,
		compound_id TEXT,
		amount TEXT NOT NULL,
		category TEXT
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL,
		peptide_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		fire_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_compounds_name ON compounds(name);
	CREATE INDEX IF NOT EXISTS idx_schedules_peptide ON schedules(peptide_name);
	CREATE INDEX IF NOT EXISTS idx_doses_date ON doses(date DESC);
	CREATE INDEX IF NOT EXISTS idx_reminders_schedule ON reminders(schedule_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
