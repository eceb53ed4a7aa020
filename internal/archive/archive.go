// Package archive persists result records in SQLite, keyed by
// (scenario_id, algorithm_id, config_index). Writes are append-only keyed
// inserts; a record is never updated in place. The WAL journal plus
// one-insert-per-task means a crashed batch loses at most the tasks that
// were still in flight, and a resumed batch skips every key already present.
package archive

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vneplab/evalgrid/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	scenario_id     TEXT NOT NULL,
	algorithm_id    TEXT NOT NULL,
	config_index    INTEGER NOT NULL,
	status          TEXT NOT NULL,
	payload         TEXT,
	diagnostic      TEXT,
	runtime_seconds REAL NOT NULL,
	run_id          TEXT NOT NULL,
	created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
	PRIMARY KEY (scenario_id, algorithm_id, config_index)
);
`

// Archive is a handle on one result database. It is safe for concurrent use
// by multiple workers.
type Archive struct {
	db    *sql.DB
	runID string
}

// Open opens (creating if necessary) the archive at path and runs
// migrations. Every Open gets a fresh run ID that is stamped on all rows
// appended through this handle.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("archive pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("archive migrate: %w", err)
	}
	return &Archive{db: db, runID: uuid.New().String()}, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// RunID identifies this archive handle's batch run.
func (a *Archive) RunID() string {
	return a.runID
}

// Has reports whether a record with the given key is already archived.
func (a *Archive) Has(ctx context.Context, key model.TaskKey) (bool, error) {
	var one int
	err := a.db.QueryRowContext(ctx,
		`SELECT 1 FROM results WHERE scenario_id = ? AND algorithm_id = ? AND config_index = ?`,
		key.ScenarioID, key.AlgorithmID, key.ConfigIndex,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("archive lookup %s: %w", key, err)
	}
	return true, nil
}

// Append inserts one record. Inserting a key that already exists is an
// error: the runner guarantees key uniqueness by construction, so a
// duplicate means two writers raced on the same task.
func (a *Archive) Append(ctx context.Context, rec model.ResultRecord) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO results (scenario_id, algorithm_id, config_index, status, payload, diagnostic, runtime_seconds, run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ScenarioID, rec.AlgorithmID, rec.ConfigIndex,
		string(rec.Status), string(rec.Payload), rec.Diagnostic, rec.RuntimeSeconds, a.runID,
	)
	if err != nil {
		return fmt.Errorf("archive append %s: %w", rec.TaskKey, err)
	}
	return nil
}

// All enumerates every archived record, ordered by key so downstream
// stages see a deterministic sequence regardless of completion order.
func (a *Archive) All(ctx context.Context) ([]model.ResultRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT scenario_id, algorithm_id, config_index, status, payload, diagnostic, runtime_seconds
		 FROM results ORDER BY scenario_id, algorithm_id, config_index`)
	if err != nil {
		return nil, fmt.Errorf("archive enumerate: %w", err)
	}
	defer rows.Close()

	var records []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		var status, payload string
		if err := rows.Scan(&rec.ScenarioID, &rec.AlgorithmID, &rec.ConfigIndex,
			&status, &payload, &rec.Diagnostic, &rec.RuntimeSeconds); err != nil {
			return nil, fmt.Errorf("archive scan: %w", err)
		}
		rec.Status = model.Status(status)
		if payload != "" {
			rec.Payload = []byte(payload)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive enumerate: %w", err)
	}
	return records, nil
}

// Count returns the number of archived records.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("archive count: %w", err)
	}
	return n, nil
}
