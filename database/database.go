package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Dialect names the SQL flavour behind a DBClient.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// DBClient owns the relational connection pool shared by the stores.
type DBClient struct {
	DB      *sql.DB
	Dialect Dialect
}

// Open picks a driver from databaseURL: postgres:// and postgresql:// URLs go
// to lib/pq, anything else is treated as a SQLite file path.
func Open(ctx context.Context, databaseURL string) (*DBClient, error) {
	var (
		client *DBClient
		err    error
	)
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		client, err = NewPostgresDB(databaseURL)
	} else {
		client, err = NewSQLiteDB(databaseURL)
	}
	if err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
func (c *DBClient) Rebind(query string) string {
	if c.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ping checks the connection is still usable.
func (c *DBClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (c *DBClient) Close() {
	if c.DB == nil {
		return
	}
	if err := c.DB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
		return
	}
	logrus.WithField("dialect", c.Dialect).Info("Database connection closed")
}
