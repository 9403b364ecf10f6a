package tracker

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS episodes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	episode     INTEGER NOT NULL,
	step        INTEGER NOT NULL,
	length      INTEGER NOT NULL,
	ep_return   REAL NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS episodes_run ON episodes (run_id, kind);
`

// SQLite is a Tracker which writes each Record to a SQLite database as
// soon as it is tracked, so that a run can be inspected while it is
// still in progress.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the SQLite database at path, creating its schema if
// needed
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("newSQLite: open db: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("newSQLite: pragma: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("newSQLite: migrate: %v", err)
	}
	return &SQLite{db: db}, nil
}

// Track inserts r into the database
func (s *SQLite) Track(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO episodes (run_id, kind, episode, step, length, ep_return, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, string(r.Kind), int64(r.Episode), int64(r.Step), r.Length,
		r.Return, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("track: %v", err)
	}
	return nil
}

// Save is a no-op, since Records are written as they are tracked
func (s *SQLite) Save() error {
	return nil
}

// Records returns all Records of kind kind from the run runID in the
// order they were tracked
func (s *SQLite) Records(runID string, kind Kind) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT run_id, kind, episode, step, length, ep_return FROM episodes
		 WHERE run_id = ? AND kind = ? ORDER BY id`,
		runID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("records: %v", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r             Record
			k             string
			episode, step int64
		)
		err := rows.Scan(&r.RunID, &k, &episode, &step, &r.Length, &r.Return)
		if err != nil {
			return nil, fmt.Errorf("records: scan: %v", err)
		}
		r.Kind = Kind(k)
		r.Episode = uint64(episode)
		r.Step = uint64(step)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: %v", err)
	}
	return records, nil
}

// Runs returns the ids of all runs in the database
func (s *SQLite) Runs() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT run_id FROM episodes GROUP BY run_id ORDER BY MIN(id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("runs: %v", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("runs: scan: %v", err)
		}
		runs = append(runs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs: %v", err)
	}
	return runs, nil
}

// Close closes the underlying database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}
