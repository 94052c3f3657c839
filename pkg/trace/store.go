package trace

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Archive persists finished runs to SQLite so traces survive beyond the
// flat-file artifacts and can be queried across runs.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (creating if needed) the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id     TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			flushed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			samples    INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id   TEXT NOT NULL,
			seq      INTEGER NOT NULL,
			angle    DOUBLE NOT NULL,
			distance DOUBLE NOT NULL,
			PRIMARY KEY (run_id, seq),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// SaveRun stores one finished run and its samples in a single transaction.
func (a *Archive) SaveRun(runID uuid.UUID, startedAt time.Time, samples []Sample) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (run_id, started_at, samples) VALUES (?, ?, ?)",
		runID.String(), startedAt.UTC(), len(samples),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO samples (run_id, seq, angle, distance) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}
	defer stmt.Close()

	for i, s := range samples {
		if _, err := stmt.Exec(runID.String(), i, s.Angle, s.Distance); err != nil {
			return fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
