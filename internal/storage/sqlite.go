// Package storage provides SQLite-based persistence for finished runs and
// drill telemetry. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished drilling run.
type Run struct {
	ID        int64
	SessionID string
	MapID     string
	Outcome   string // "WIN" or "GAME_OVER"
	Score     int
	Depth     float64
	Droplets  int
	Duration  time.Duration
	CreatedAt time.Time
}

// TelemetryCommand is one recorded steering command.
type TelemetryCommand struct {
	Seq      uint64
	DtMs     float64
	AngleDeg float64
	Throttle float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			map_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL,
			depth REAL NOT NULL DEFAULT 0,
			droplets INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_map_id ON runs(map_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(map_id, score DESC, duration_ms ASC);

		CREATE TABLE IF NOT EXISTS telemetry (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			dt_ms REAL NOT NULL,
			angle_deg REAL NOT NULL,
			throttle REAL NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_telemetry_session_seq ON telemetry(session_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (session_id, map_id, outcome, score, depth, droplets, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.MapID, r.Outcome, r.Score, r.Depth, r.Droplets, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best N runs for a map.
// Results are ordered by score descending, then by the faster run.
func (s *Store) TopRuns(mapID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, map_id, outcome, score, depth, droplets, duration_ms, created_at
		 FROM runs
		 WHERE map_id = ?
		 ORDER BY score DESC, duration_ms ASC, id ASC
		 LIMIT ?`,
		mapID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SessionID, &r.MapID, &r.Outcome, &r.Score,
			&r.Depth, &r.Droplets, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// HighScore returns the highest score for a map.
// Returns 0 if no runs exist.
func (s *Store) HighScore(mapID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE map_id = ?",
		mapID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes all runs for a map.
func (s *Store) ClearRuns(mapID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE map_id = ?", mapID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// MapStats contains aggregated statistics for a map.
type MapStats struct {
	MapID      string
	Runs       int
	Wins       int
	HighScore  int
	AvgScore   float64
	MaxDepth   float64
	LastPlayed time.Time
}

// AllMapStats retrieves statistics for every map that has been played.
func (s *Store) AllMapStats() (map[string]*MapStats, error) {
	rows, err := s.db.Query(
		`SELECT map_id, COUNT(*), SUM(CASE WHEN outcome = 'WIN' THEN 1 ELSE 0 END),
		        MAX(score), AVG(score), MAX(depth), MAX(created_at)
		 FROM runs
		 GROUP BY map_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MapStats)
	for rows.Next() {
		var m MapStats
		var lastPlayed any
		if err := rows.Scan(&m.MapID, &m.Runs, &m.Wins, &m.HighScore, &m.AvgScore, &m.MaxDepth, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.MapID] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// SaveTelemetry stores a batch of commands for a session in one transaction.
func (s *Store) SaveTelemetry(sessionID string, batch []TelemetryCommand) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin telemetry batch: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO telemetry (session_id, seq, dt_ms, angle_deg, throttle) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot prepare telemetry insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range batch {
		if _, err := stmt.Exec(sessionID, int64(c.Seq), c.DtMs, c.AngleDeg, c.Throttle); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: cannot save telemetry seq %d: %w", c.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit telemetry batch: %w", err)
	}
	return nil
}

// Telemetry returns every command recorded for a session, in sequence order.
func (s *Store) Telemetry(sessionID string) ([]TelemetryCommand, error) {
	rows, err := s.db.Query(
		`SELECT seq, dt_ms, angle_deg, throttle
		 FROM telemetry
		 WHERE session_id = ?
		 ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query telemetry: %w", err)
	}
	defer rows.Close()

	var out []TelemetryCommand
	for rows.Next() {
		var c TelemetryCommand
		var seq int64
		if err := rows.Scan(&seq, &c.DtMs, &c.AngleDeg, &c.Throttle); err != nil {
			return nil, fmt.Errorf("storage: cannot scan telemetry row: %w", err)
		}
		c.Seq = uint64(seq)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
