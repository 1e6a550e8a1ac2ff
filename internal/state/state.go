// Package state provides the SQLite-backed sync state: per-table record
// timestamp snapshots consumed by the change detector, and a log of sync
// runs for status reporting.
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS record_stamps (
	table_name    TEXT NOT NULL,
	record_id     TEXT NOT NULL,
	last_modified TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (table_name, record_id)
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	mode         TEXT NOT NULL,
	started_at   DATETIME NOT NULL,
	finished_at  DATETIME,
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	rate_limited INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at);
`

// Run statuses.
const (
	RunRunning = "running"
	RunSuccess = "success"
	RunFailed  = "failed"
)

// Run is one entry of the sync run log.
type Run struct {
	ID          int64      `json:"id"`
	Mode        string     `json:"mode"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	RateLimited bool       `json:"rate_limited"`
}

// DB wraps a sql.DB with sync-state operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Stamps returns the stored {recordID: lastModified} snapshot for a table.
func (db *DB) Stamps(table string) (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT record_id, last_modified FROM record_stamps WHERE table_name = ?`, table)
	if err != nil {
		return nil, fmt.Errorf("state: stamps for %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, mod string
		if err := rows.Scan(&id, &mod); err != nil {
			return nil, err
		}
		out[id] = mod
	}
	return out, rows.Err()
}

// ReplaceStamps atomically replaces a table's snapshot.
func (db *DB) ReplaceStamps(table string, stamps map[string]string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("state: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM record_stamps WHERE table_name = ?`, table); err != nil {
		return fmt.Errorf("state: clear stamps: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO record_stamps (table_name, record_id, last_modified) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("state: prepare stamp insert: %w", err)
	}
	defer stmt.Close()
	for id, mod := range stamps {
		if _, err := stmt.Exec(table, id, mod); err != nil {
			return fmt.Errorf("state: insert stamp: %w", err)
		}
	}
	return tx.Commit()
}

// BeginRun records the start of a sync run and returns its id.
func (db *DB) BeginRun(mode string, startedAt time.Time) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO sync_runs (mode, started_at, status) VALUES (?, ?, ?)`,
		mode, startedAt.UTC(), RunRunning)
	if err != nil {
		return 0, fmt.Errorf("state: begin run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun records the outcome of a sync run.
func (db *DB) FinishRun(id int64, finishedAt time.Time, status, errMsg string, rateLimited bool) error {
	_, err := db.conn.Exec(
		`UPDATE sync_runs SET finished_at = ?, status = ?, error = ?, rate_limited = ? WHERE id = ?`,
		finishedAt.UTC(), status, errMsg, boolToInt(rateLimited), id)
	if err != nil {
		return fmt.Errorf("state: finish run: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when none exist.
func (db *DB) LastRun() (*Run, error) {
	row := db.conn.QueryRow(`
		SELECT id, mode, started_at, finished_at, status, error, rate_limited
		FROM sync_runs ORDER BY started_at DESC, id DESC LIMIT 1`)

	var r Run
	var finished sql.NullTime
	var rateLimited int
	err := row.Scan(&r.ID, &r.Mode, &r.StartedAt, &finished, &r.Status, &r.Error, &rateLimited)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: last run: %w", err)
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	r.RateLimited = rateLimited != 0
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
