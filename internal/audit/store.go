package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"authflow/pkg/db"
	"authflow/pkg/oauth2"
)

const insertFlowEvent = `INSERT INTO oauth2_flow_events (flow_id, provider, state, error, status_code, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectProviderEvents = `SELECT flow_id, provider, state, error, status_code, started_at, finished_at
FROM oauth2_flow_events WHERE provider = $1 ORDER BY started_at DESC LIMIT $2`

// Store keeps one row per finished flow in Postgres
type Store struct {
	db db.SQLExecutor
}

func NewStore(executor db.SQLExecutor) *Store {
	return &Store{db: executor}
}

// RecordFlow implements oauth2.FlowRecorder
func (s *Store) RecordFlow(ctx context.Context, rec oauth2.FlowRecord) error {
	_, err := s.db.ExecContext(ctx, insertFlowEvent,
		rec.ID,
		rec.Provider,
		string(rec.State),
		nullString(rec.Error),
		nullInt(rec.StatusCode),
		rec.StartedAt,
		nullTime(rec.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert flow event %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns the latest finished flows for a provider, newest first
func (s *Store) Recent(ctx context.Context, provider string, limit int) ([]oauth2.FlowRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectProviderEvents, provider, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query flow events: %w", err)
	}
	defer rows.Close()

	var records []oauth2.FlowRecord
	for rows.Next() {
		var (
			rec        oauth2.FlowRecord
			state      string
			errText    sql.NullString
			statusCode sql.NullInt32
			finishedAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Provider, &state, &errText, &statusCode, &rec.StartedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flow event: %w", err)
		}
		rec.State = oauth2.State(state)
		rec.Error = errText.String
		rec.StatusCode = int(statusCode.Int32)
		if finishedAt.Valid {
			t := finishedAt.Time
			rec.FinishedAt = &t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flow events: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(n), Valid: n != 0}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
