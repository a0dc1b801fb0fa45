package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/sirupsen/logrus"

	"visittrack/api/config"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

const clickHouseVisitsTable = `
	CREATE TABLE IF NOT EXISTS visits (
		id UInt64,
		timestamp DateTime,
		utm_source String,
		ip String,
		user_agent String,
		referrer String,
		page_path String,
		device_type LowCardinality(String),
		session_id String
	) ENGINE = MergeTree
	ORDER BY (timestamp, id)
`

// NewClickHouseDB connects to the analytics mirror and ensures its table exists.
func NewClickHouseDB(cfg config.ClickHouseConfig) (*ClickHouseClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT, or CLICKHOUSE_DB_NAME environment variables are not set")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.NativePort)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "visittrack", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if err := conn.Exec(ctx, clickHouseVisitsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create ClickHouse visits table: %w", err)
	}

	logrus.WithField("host", cfg.Host).Info("Successfully connected to ClickHouse analytics mirror")
	return &ClickHouseClient{Conn: conn}, nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		logrus.Info("ClickHouse connection closed")
	}
}
