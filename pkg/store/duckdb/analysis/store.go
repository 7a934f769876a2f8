package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/pillar-atlas/pkg/models/store"
	"github.com/de-tools/pillar-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("analysis not found")

// Store persists finished analyses so questions can be asked about them later
type Store interface {
	Save(ctx context.Context, analysis store.Analysis) error
	Get(ctx context.Context, id string) (*store.Analysis, error)
	List(ctx context.Context, limit int) ([]store.AnalysisHeader, error)
	Delete(ctx context.Context, id string) error
}

type analysisStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &analysisStore{
		db: db,
	}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *analysisStore) execer(ctx context.Context) execer {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *analysisStore) Save(ctx context.Context, analysis store.Analysis) error {
	payload, err := json.Marshal(analysis.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		INSERT INTO analyses (id, source, mode, created_at, payload)
		VALUES (?, ?, ?, ?, ?)`

	_, err = s.execer(ctx).ExecContext(ctx, query,
		analysis.ID,
		analysis.Source,
		analysis.Mode,
		analysis.CreatedAt,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("analysis_id", analysis.ID).Int("payload_bytes", len(payload)).Msg("analysis saved")
	return nil
}

func (s *analysisStore) Get(ctx context.Context, id string) (*store.Analysis, error) {
	query := `
		SELECT id, source, mode, created_at, CAST(payload AS VARCHAR)
		FROM analyses
		WHERE id = ?`

	var (
		a       store.Analysis
		payload string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Source, &a.Mode, &a.CreatedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &a.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &a, nil
}

func (s *analysisStore) List(ctx context.Context, limit int) ([]store.AnalysisHeader, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, source, mode, created_at
		FROM analyses
		ORDER BY created_at DESC, id
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	headers := make([]store.AnalysisHeader, 0)
	for rows.Next() {
		var h store.AnalysisHeader
		if err := rows.Scan(&h.ID, &h.Source, &h.Mode, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return headers, nil
}

func (s *analysisStore) Delete(ctx context.Context, id string) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
