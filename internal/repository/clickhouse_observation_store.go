package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"RankGuard/internal/domain/models"
	pkgch "RankGuard/pkg/clickhouse"
	applogger "RankGuard/pkg/logger"
)

// CHObservationStore implements ObservationStore backed by ClickHouse, the
// store the ingestion pipeline writes into. Reads only.
type CHObservationStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewCHObservationStore creates a store reading from the given table.
func NewCHObservationStore(ch *pkgch.Client, table string) *CHObservationStore {
	return &CHObservationStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHObservationStore) SetLogger(l *applogger.Logger) { s.l = l }

// GetObservations returns the subject's observations since the given
// instant, in chronological order.
func (s *CHObservationStore) GetObservations(ctx context.Context, subjectID string, since time.Time) ([]models.Observation, error) {
	start := time.Now()
	const qtpl = `
        SELECT source, position, clicks, impressions, observed_at
        FROM %s
        WHERE subject_id = ? AND observed_at >= ?
        ORDER BY observed_at ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, subjectID, since)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_observations query error",
				applogger.String("subject", subjectID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get observations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0, 256)
	for rows.Next() {
		var (
			o           models.Observation
			source      string
			position    sql.NullFloat64
			clicks      sql.NullInt64
			impressions sql.NullInt64
		)
		if err := rows.Scan(&source, &position, &clicks, &impressions, &o.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.Source = models.Source(source)
		if position.Valid {
			v := position.Float64
			o.Position = &v
		}
		if clicks.Valid {
			v := int(clicks.Int64)
			o.Clicks = &v
		}
		if impressions.Valid {
			v := int(impressions.Int64)
			o.Impressions = &v
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse get_observations ok",
			applogger.String("subject", subjectID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}
