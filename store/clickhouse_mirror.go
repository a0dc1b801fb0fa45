package store

import (
	"context"
	"fmt"

	"visittrack/api/database"
	"visittrack/api/models"
)

// ClickHouseMirror copies visits into the ClickHouse analytics table.
type ClickHouseMirror struct {
	DB *database.ClickHouseClient
}

func NewClickHouseMirror(chClient *database.ClickHouseClient) *ClickHouseMirror {
	return &ClickHouseMirror{DB: chClient}
}

func (m *ClickHouseMirror) MirrorVisit(ctx context.Context, visit models.Visit) error {
	return m.InsertVisits(ctx, []models.Visit{visit})
}

// InsertVisits sends visits as a single batch.
func (m *ClickHouseMirror) InsertVisits(ctx context.Context, visits []models.Visit) error {
	if len(visits) == 0 {
		return nil
	}

	batch, err := m.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO visits (
			id, timestamp, utm_source, ip, user_agent, referrer, page_path, device_type, session_id
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, v := range visits {
		err := batch.Append(
			uint64(v.ID),
			v.Timestamp,
			v.UTMSource,
			v.IP,
			v.UserAgent,
			v.Referrer,
			v.PagePath,
			string(v.DeviceType),
			v.SessionID,
		)
		if err != nil {
			batch.Abort()
			return fmt.Errorf("failed to append visit %d to batch: %w", v.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}
