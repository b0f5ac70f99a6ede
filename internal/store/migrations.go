package store

import "strconv"

// schemaVersion is recorded in the settings table after migrating.
const schemaVersion = 1

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per keyboard run.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			keys INTEGER NOT NULL DEFAULT 0
		)`,

		// Lifetime press counts per key label.
		`CREATE TABLE IF NOT EXISTS key_stats (
			label TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0,
			last_pressed DATETIME NOT NULL
		)`,

		// Press counts per key label within a session.
		`CREATE TABLE IF NOT EXISTS session_keys (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, label)
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_session_keys_session_id ON session_keys(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return s.Settings().Set(settingSchemaVersion, strconv.Itoa(schemaVersion))
}
