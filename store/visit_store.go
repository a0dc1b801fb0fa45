package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"visittrack/api/database"
	"visittrack/api/models"
)

// ErrNoVisit is returned when a session has no recorded visit to update.
var ErrNoVisit = errors.New("no visit recorded for session")

// VisitMirror receives a copy of every recorded visit.
type VisitMirror interface {
	MirrorVisit(ctx context.Context, visit models.Visit) error
}

type VisitStore struct {
	db     *database.DBClient
	mirror VisitMirror
}

// NewVisitStore builds a store over db. mirror may be nil.
func NewVisitStore(db *database.DBClient, mirror VisitMirror) *VisitStore {
	return &VisitStore{db: db, mirror: mirror}
}

const visitColumns = `id, timestamp, utm_source, ip, user_agent, referrer, page_path,
	duration, device_type, session_id, max_scroll, sections_viewed, chat_used`

// InsertVisit records one page request and sets visit.ID. The timestamp is
// assigned by the database.
func (s *VisitStore) InsertVisit(ctx context.Context, visit *models.Visit) error {
	query := s.db.Rebind(`
		INSERT INTO visits (utm_source, ip, user_agent, referrer, page_path, device_type, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.db.DB.QueryRowContext(ctx, query,
		visit.UTMSource,
		visit.IP,
		visit.UserAgent,
		visit.Referrer,
		visit.PagePath,
		string(visit.DeviceType),
		visit.SessionID,
	).Scan(&visit.ID)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	if s.mirror != nil {
		mirrored := *visit
		mirrored.Timestamp = time.Now().UTC()
		if err := s.mirror.MirrorVisit(ctx, mirrored); err != nil {
			logrus.WithError(err).WithField("visit_id", visit.ID).Warn("Failed to mirror visit")
		}
	}
	return nil
}

// UpdateLatestForSession applies patch to the newest visit (highest id) of
// sessionID and returns that visit's id. Older visits are never touched.
func (s *VisitStore) UpdateLatestForSession(ctx context.Context, sessionID string, patch models.VisitPatch) (int64, error) {
	tx, err := s.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin beacon update: %w", err)
	}
	defer tx.Rollback()

	var (
		visit     models.Visit
		duration  sql.NullInt64
		maxScroll sql.NullInt64
		sections  sql.NullString
		chatUsed  sql.NullInt64
	)
	err = tx.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, duration, max_scroll, sections_viewed, chat_used
		FROM visits
		WHERE id = (SELECT MAX(id) FROM visits WHERE session_id = ?)
	`), sessionID).Scan(&visit.ID, &duration, &maxScroll, &sections, &chatUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoVisit
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load latest visit for session: %w", err)
	}

	visit.Duration = int(duration.Int64)
	visit.MaxScroll = int(maxScroll.Int64)
	visit.ChatUsed = int(chatUsed.Int64)
	if sections.Valid {
		visit.SectionsViewed = &sections.String
	}

	patch.Apply(&visit)

	_, err = tx.ExecContext(ctx, s.db.Rebind(`
		UPDATE visits
		SET duration = ?, max_scroll = ?, sections_viewed = ?, chat_used = ?
		WHERE id = ?
	`), visit.Duration, visit.MaxScroll, visit.SectionsViewed, visit.ChatUsed, visit.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update visit %d: %w", visit.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit beacon update: %w", err)
	}
	return visit.ID, nil
}

// ListVisits returns the newest visits first, optionally only those with the
// given utm_source.
func (s *VisitStore) ListVisits(ctx context.Context, limit int, utmSource string) ([]models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits`
	var args []interface{}

	if utmSource != "" {
		query += ` WHERE utm_source = ?`
		args = append(args, utmSource)
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.DB.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	visits := []models.Visit{}
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit rows: %w", err)
	}
	return visits, nil
}

func scanVisit(rows *sql.Rows) (models.Visit, error) {
	var (
		v          models.Visit
		ts         sql.NullTime
		utm        sql.NullString
		ip         sql.NullString
		userAgent  sql.NullString
		referrer   sql.NullString
		pagePath   sql.NullString
		duration   sql.NullInt64
		deviceType sql.NullString
		sessionID  sql.NullString
		maxScroll  sql.NullInt64
		sections   sql.NullString
		chatUsed   sql.NullInt64
	)
	err := rows.Scan(&v.ID, &ts, &utm, &ip, &userAgent, &referrer, &pagePath,
		&duration, &deviceType, &sessionID, &maxScroll, &sections, &chatUsed)
	if err != nil {
		return v, fmt.Errorf("failed to scan visit row: %w", err)
	}

	v.Timestamp = ts.Time
	v.UTMSource = utm.String
	v.IP = ip.String
	v.UserAgent = userAgent.String
	v.Referrer = referrer.String
	v.PagePath = pagePath.String
	v.Duration = int(duration.Int64)
	v.DeviceType = models.DeviceType(deviceType.String)
	v.SessionID = sessionID.String
	v.MaxScroll = int(maxScroll.Int64)
	v.ChatUsed = int(chatUsed.Int64)
	if sections.Valid {
		v.SectionsViewed = &sections.String
	}
	return v, nil
}

// GetStats computes the dashboard headline numbers.
func (s *VisitStore) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{BySource: []models.SourceCount{}}

	err := s.db.DB.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT session_id) FROM visits`).
		Scan(&stats.TotalViews, &stats.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	// Visits without a beacon report keep duration 0 and would drag the mean down.
	var avg sql.NullFloat64
	err = s.db.DB.QueryRowContext(ctx, `SELECT AVG(duration) FROM visits WHERE duration > 0`).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to query average duration: %w", err)
	}
	if avg.Valid {
		stats.AvgDuration = int64(math.Round(avg.Float64))
	}

	var last sql.NullTime
	err = s.db.DB.QueryRowContext(ctx, `SELECT timestamp FROM visits ORDER BY timestamp DESC, id DESC LIMIT 1`).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to query last visit: %w", err)
	case last.Valid:
		stats.LastVisit = &last.Time
	}

	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT utm_source, COUNT(*) AS count
		FROM visits
		GROUP BY utm_source
		ORDER BY count DESC, utm_source ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits by source: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			source sql.NullString
			count  int64
		)
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		stats.BySource = append(stats.BySource, models.SourceCount{UTMSource: source.String, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return stats, nil
}
