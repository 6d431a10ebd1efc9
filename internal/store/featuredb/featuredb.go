// Package featuredb keeps the flat tabular dump of a run: one row per
// account with its features, labels and contextual roll-up, plus the
// duplicate groups.
package featuredb

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"twinpics/internal/contextual"
	"twinpics/internal/dupes"
	"twinpics/internal/model"
)

// DB wraps the SQLite dump.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases coherent
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
	  id TEXT PRIMARY KEY,
	  platform TEXT NOT NULL,
	  started_at INTEGER NOT NULL,
	  finished_at INTEGER
	);
	CREATE TABLE IF NOT EXISTS accounts (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  run_id TEXT NOT NULL,
	  screen_name TEXT NOT NULL,
	  community INTEGER NOT NULL,
	  labels TEXT NOT NULL,
	  features TEXT NOT NULL,
	  context TEXT,
	  UNIQUE(run_id, screen_name)
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_run ON accounts(run_id);
	CREATE TABLE IF NOT EXISTS dup_groups (
	  id TEXT NOT NULL,
	  run_id TEXT NOT NULL,
	  payload TEXT NOT NULL,
	  PRIMARY KEY(run_id, id)
	);
	`)
	return err
}

// AccountRow is one account of a run.
type AccountRow struct {
	Handle    string
	Community int
	Labels    []string
	Features  model.Features
	Context   *contextual.AccountResult
}

// NewRun records the start of a run and returns its id.
func (d *DB) NewRun(ctx context.Context, platform model.Platform, started time.Time) (string, error) {
	id := uuid.NewString()
	_, err := d.sql.ExecContext(ctx, `INSERT INTO runs(id, platform, started_at) VALUES(?,?,?)`, id, string(platform), started.Unix())
	return id, err
}

// FinishRun stamps the end of a run.
func (d *DB) FinishRun(ctx context.Context, runID string, finished time.Time) error {
	_, err := d.sql.ExecContext(ctx, `UPDATE runs SET finished_at=? WHERE id=?`, finished.Unix(), runID)
	return err
}

// PutAccounts upserts rows in one transaction.
func (d *DB) PutAccounts(ctx context.Context, runID string, rows []AccountRow) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO accounts(run_id, screen_name, community, labels, features, context) VALUES(?,?,?,?,?,?)
	ON CONFLICT(run_id, screen_name) DO UPDATE SET
	  community=excluded.community, labels=excluded.labels, features=excluded.features, context=excluded.context`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		lb, err := json.Marshal(r.Labels)
		if err != nil {
			return err
		}
		fb, err := json.Marshal(r.Features)
		if err != nil {
			return err
		}
		var cb *string
		if r.Context != nil {
			b, err := json.Marshal(r.Context)
			if err != nil {
				return err
			}
			s := string(b)
			cb = &s
		}
		if _, err := stmt.ExecContext(ctx, runID, r.Handle, r.Community, string(lb), string(fb), cb); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadAccounts returns the rows of a run in insertion order.
func (d *DB) LoadAccounts(ctx context.Context, runID string) ([]AccountRow, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT screen_name, community, labels, features, context FROM accounts WHERE run_id=? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountRow
	for rows.Next() {
		var r AccountRow
		var lb, fb string
		var cb sql.NullString
		if err := rows.Scan(&r.Handle, &r.Community, &lb, &fb, &cb); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(lb), &r.Labels); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fb), &r.Features); err != nil {
			return nil, err
		}
		if cb.Valid {
			r.Context = &contextual.AccountResult{}
			if err := json.Unmarshal([]byte(cb.String), r.Context); err != nil {
				return nil, err
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PutGroup stores a duplicate group.
func (d *DB) PutGroup(ctx context.Context, runID string, g dupes.Group) error {
	b, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `INSERT OR REPLACE INTO dup_groups(id, run_id, payload) VALUES(?,?,?)`, g.ID, runID, string(b))
	return err
}

// LoadGroups returns the duplicate groups of a run ordered by id.
func (d *DB) LoadGroups(ctx context.Context, runID string) ([]dupes.Group, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT payload FROM dup_groups WHERE run_id=? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dupes.Group
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		var g dupes.Group
		if err := json.Unmarshal([]byte(p), &g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
