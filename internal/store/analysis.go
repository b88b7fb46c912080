package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agilesense.ai/services/core/db"
	"agilesense.ai/services/internal/model"
)

const analysisSchema = `
CREATE TABLE IF NOT EXISTS brainstorm_analyses (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	participant_id TEXT,
	analysis       JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS brainstorm_analyses_session_idx
	ON brainstorm_analyses (session_id, created_at DESC);`

type analysisStore struct {
	q db.Querier
}

func newAnalysisStore(q db.Querier) AnalysisStore {
	return &analysisStore{q: q}
}

// EnsureAnalysisSchema creates the analysis history table if missing.
func EnsureAnalysisSchema(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, analysisSchema); err != nil {
		return fmt.Errorf("creating brainstorm_analyses: %w", err)
	}
	return nil
}

func (s *analysisStore) Insert(ctx context.Context, record *model.AnalysisRecord) error {
	payload, err := json.Marshal(record.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err = s.q.Exec(ctx,
		`INSERT INTO brainstorm_analyses (id, session_id, participant_id, analysis, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.SessionID, record.ParticipantID, payload, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (s *analysisStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.AnalysisRecord, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, session_id, participant_id, analysis, created_at
		 FROM brainstorm_analyses
		 WHERE session_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var records []model.AnalysisRecord
	for rows.Next() {
		var (
			rec     model.AnalysisRecord
			payload []byte
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.ParticipantID, &payload, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := json.Unmarshal(payload, &rec.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return records, nil
}
