package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-lead-cli/internal/db"
	"github.com/sells-group/venue-lead-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"save_lead": `INSERT INTO leads (id, data, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	"upsert_record": `INSERT INTO leads (id, data, status, record, score, potential, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, score = EXCLUDED.score, potential = EXCLUDED.potential, status = EXCLUDED.status, failure_reason = NULL, updated_at = EXCLUDED.updated_at`,
	"mark_failed": `UPDATE leads SET status = $1, failure_reason = $2, updated_at = $3 WHERE id = $4`,
	"get_lead":    `SELECT data, status, failure_reason, record FROM leads WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for use by subsystems that
// need direct query access (e.g., bulk lead imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	data           JSONB NOT NULL,
	status         TEXT NOT NULL DEFAULT 'saved',
	failure_reason TEXT,
	record         JSONB,
	score          INTEGER,
	potential      TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_potential ON leads(potential);
CREATE INDEX IF NOT EXISTS idx_leads_updated_at ON leads(updated_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveLead(ctx context.Context, lead model.Lead) error {
	leadJSON, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, data, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		lead.ID, leadJSON, string(model.LeadStatusSaved), now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save lead %s", lead.ID)
	}
	return nil
}

// SaveLeads bulk-upserts raw leads in a single round trip. Existing rows
// keep their status and record; only the lead data is refreshed.
func (s *PostgresStore) SaveLeads(ctx context.Context, leads []model.Lead) error {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(leads))
	for _, lead := range leads {
		leadJSON, err := json.Marshal(lead)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal lead %s", lead.ID)
		}
		rows = append(rows, []any{lead.ID, leadJSON, string(model.LeadStatusSaved), now, now})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "leads",
		Columns:      []string{"id", "data", "status", "created_at", "updated_at"},
		ConflictKeys: []string{"id"},
		UpdateCols:   []string{"data", "updated_at"},
	}, rows)
	return eris.Wrap(err, "postgres: save leads")
}

func (s *PostgresStore) UpsertRecord(ctx context.Context, rec *model.EnrichmentRecord) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal record")
	}
	// Minimal lead data for rows created by enrichment alone.
	leadJSON, err := json.Marshal(model.Lead{ID: rec.LeadID, Name: rec.VenueName, Website: rec.Website})
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead data")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, data, status, record, score, potential, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, score = EXCLUDED.score, potential = EXCLUDED.potential, status = EXCLUDED.status, failure_reason = NULL, updated_at = EXCLUDED.updated_at`,
		rec.LeadID, leadJSON, string(model.LeadStatusEnriched), recJSON, rec.Score.Score, string(rec.Score.Potential), rec.UpdatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert record %s", rec.LeadID)
	}
	return nil
}

func (s *PostgresStore) MarkFailed(ctx context.Context, leadID, reason string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET status = $1, failure_reason = $2, updated_at = $3 WHERE id = $4`,
		string(model.LeadStatusFailed), reason, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark failed %s", leadID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetLead(ctx context.Context, leadID string) (*StoredLead, error) {
	var leadJSON, recJSON []byte
	var status string
	var reason *string

	err := s.pool.QueryRow(ctx,
		`SELECT data, status, failure_reason, record FROM leads WHERE id = $1`,
		leadID,
	).Scan(&leadJSON, &status, &reason, &recJSON)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", leadID)
	}

	return scanStoredLead(leadJSON, status, reason, recJSON)
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]StoredLead, error) {
	query := `SELECT data, status, failure_reason, record FROM leads`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []StoredLead
	for rows.Next() {
		var leadJSON, recJSON []byte
		var status string
		var reason *string
		if err := rows.Scan(&leadJSON, &status, &reason, &recJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		sl, err := scanStoredLead(leadJSON, status, reason, recJSON)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *sl)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}
	return leads, nil
}

func scanStoredLead(leadJSON []byte, status string, reason *string, recJSON []byte) (*StoredLead, error) {
	sl := &StoredLead{Status: model.LeadStatus(status)}
	if err := json.Unmarshal(leadJSON, &sl.Lead); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal lead data")
	}
	if reason != nil {
		sl.FailureReason = *reason
	}
	if len(recJSON) > 0 {
		sl.Record = &model.EnrichmentRecord{}
		if err := json.Unmarshal(recJSON, sl.Record); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal record")
		}
	}
	return sl, nil
}

