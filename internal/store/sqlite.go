package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the
// default backend: zero-setup local persistence for CLI use.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Single connection: modernc.org/sqlite allows one writer, and a
	// shared pool would give :memory: databases one schema per conn.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	data           TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'saved',
	failure_reason TEXT,
	record         TEXT,
	score          INTEGER,
	potential      TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_potential ON leads(potential);
CREATE INDEX IF NOT EXISTS idx_leads_updated_at ON leads(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveLead(ctx context.Context, lead model.Lead) error {
	leadJSON, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, data, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		lead.ID, string(leadJSON), string(model.LeadStatusSaved), now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save lead %s", lead.ID)
	}
	return nil
}

// SaveLeads upserts leads in one transaction.
func (s *SQLiteStore) SaveLeads(ctx context.Context, leads []model.Lead) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, lead := range leads {
		leadJSON, err := json.Marshal(lead)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal lead %s", lead.ID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO leads (id, data, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			lead.ID, string(leadJSON), string(model.LeadStatusSaved), now, now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: save lead %s", lead.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit save leads")
}

func (s *SQLiteStore) UpsertRecord(ctx context.Context, rec *model.EnrichmentRecord) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}
	leadJSON, err := json.Marshal(model.Lead{ID: rec.LeadID, Name: rec.VenueName, Website: rec.Website})
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead data")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, data, status, record, score, potential, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET record = excluded.record, score = excluded.score, potential = excluded.potential, status = excluded.status, failure_reason = NULL, updated_at = excluded.updated_at`,
		rec.LeadID, string(leadJSON), string(model.LeadStatusEnriched), string(recJSON), rec.Score.Score, string(rec.Score.Potential), rec.UpdatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert record %s", rec.LeadID)
	}
	return nil
}

func (s *SQLiteStore) MarkFailed(ctx context.Context, leadID, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, failure_reason = ?, updated_at = ? WHERE id = ?`,
		string(model.LeadStatusFailed), reason, time.Now().UTC(), leadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark failed %s", leadID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, leadID string) (*StoredLead, error) {
	var leadJSON string
	var status string
	var reason, recJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT data, status, failure_reason, record FROM leads WHERE id = ?`,
		leadID,
	).Scan(&leadJSON, &status, &reason, &recJSON)
	if eris.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", leadID)
	}

	return scanStoredLead([]byte(leadJSON), status, nullableString(reason), nullableBytes(recJSON))
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]StoredLead, error) {
	query := `SELECT data, status, failure_reason, record FROM leads`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []StoredLead
	for rows.Next() {
		var leadJSON, status string
		var reason, recJSON sql.NullString
		if err := rows.Scan(&leadJSON, &status, &reason, &recJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		sl, err := scanStoredLead([]byte(leadJSON), status, nullableString(reason), nullableBytes(recJSON))
		if err != nil {
			return nil, err
		}
		leads = append(leads, *sl)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}
	return leads, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullableBytes(ns sql.NullString) []byte {
	if !ns.Valid {
		return nil
	}
	return []byte(ns.String)
}
