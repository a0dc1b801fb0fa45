package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var sqliteTables = []string{
	`CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		utm_source TEXT,
		ip TEXT,
		user_agent TEXT,
		referrer TEXT,
		page_path TEXT,
		duration INTEGER DEFAULT 0,
		device_type TEXT,
		session_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS chat_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT,
		role TEXT,
		message TEXT
	)`,
}

var postgresTables = []string{
	`CREATE TABLE IF NOT EXISTS visits (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		utm_source TEXT,
		ip TEXT,
		user_agent TEXT,
		referrer TEXT,
		page_path TEXT,
		duration INTEGER DEFAULT 0,
		device_type TEXT,
		session_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS chat_logs (
		id BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT,
		role TEXT,
		message TEXT
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_utm ON visits(utm_source)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_session ON visits(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_logs_session ON chat_logs(session_id)`,
}

// Columns added after the first release. Adding one that already exists
// fails, and that failure is expected.
var additiveColumns = []string{
	`ALTER TABLE visits ADD COLUMN max_scroll INTEGER DEFAULT 0`,
	`ALTER TABLE visits ADD COLUMN sections_viewed TEXT`,
	`ALTER TABLE visits ADD COLUMN chat_used INTEGER DEFAULT 0`,
}

// Migrate creates the schema if absent. It is safe to run on every start.
func (c *DBClient) Migrate(ctx context.Context) error {
	tables := sqliteTables
	if c.Dialect == Postgres {
		tables = postgresTables
	}

	for _, stmt := range append(tables, indexes...) {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	for _, stmt := range additiveColumns {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			logrus.WithError(err).WithField("statement", stmt).Debug("Column add skipped")
		}
	}

	return nil
}
