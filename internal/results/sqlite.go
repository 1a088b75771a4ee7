// Package results stores batch-run outcomes in a SQLite index so episodes
// can be compared across scenarios, algorithms and seeds.
package results

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

// Episode is one finished run.
type Episode struct {
	ID         int64
	Scenario   string
	Algorithm  string
	Seed       int64
	Ticks      int
	Done       bool
	Metrics    sim.Metrics
	RecordedAt time.Time
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	schema := `CREATE TABLE IF NOT EXISTS episodes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario    TEXT NOT NULL,
		algorithm   TEXT NOT NULL,
		seed        INTEGER NOT NULL,
		ticks       INTEGER NOT NULL,
		done        INTEGER NOT NULL,
		deliveries  INTEGER NOT NULL,
		metrics     TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_episodes_scenario ON episodes(scenario, algorithm);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert records one episode and returns its row id.
func (s *Store) Insert(ep Episode) (int64, error) {
	mb, err := json.Marshal(ep.Metrics)
	if err != nil {
		return 0, err
	}
	at := ep.RecordedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO episodes (scenario, algorithm, seed, ticks, done, deliveries, metrics, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ep.Scenario, ep.Algorithm, ep.Seed, ep.Ticks, ep.Done,
		ep.Metrics.Deliveries, string(mb), at.Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns every stored episode, newest first.
func (s *Store) List() ([]Episode, error) {
	rows, err := s.db.Query(
		`SELECT id, scenario, algorithm, seed, ticks, done, metrics, recorded_at
		 FROM episodes ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		var ep Episode
		var metrics, recorded string
		if err := rows.Scan(&ep.ID, &ep.Scenario, &ep.Algorithm, &ep.Seed,
			&ep.Ticks, &ep.Done, &metrics, &recorded); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metrics), &ep.Metrics); err != nil {
			return nil, fmt.Errorf("episode %d metrics: %w", ep.ID, err)
		}
		if t, err := time.Parse(time.RFC3339, recorded); err == nil {
			ep.RecordedAt = t
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}
