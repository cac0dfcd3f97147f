// Package store persists condition records to a SQLite time-series table
// keyed by resort and timestamp.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/powderline/snowday/internal/domain"
)

// ErrNotFound is returned when a resort has no stored snapshots.
var ErrNotFound = errors.New("no snapshots for resort")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	resort_id TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	wind_speed REAL,
	wind_chill REAL,
	temp_min REAL,
	temp_max REAL,
	snowfall_12h REAL,
	snowfall_24h REAL,
	snowfall_7d REAL,
	base_depth REAL,
	precip_type TEXT,
	is_operational INTEGER,
	lifts_open INTEGER,
	lifts_total INTEGER,
	trails_open INTEGER,
	trails_total INTEGER
);
CREATE INDEX IF NOT EXISTS idx_snapshots_resort_ts ON snapshots(resort_id, timestamp);
`

const recordColumns = `resort_id, timestamp, wind_speed, wind_chill, temp_min, temp_max,
	snowfall_12h, snowfall_24h, snowfall_7d, base_depth, precip_type,
	is_operational, lifts_open, lifts_total, trails_open, trails_total`

// Store is an append-only condition snapshot store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the snapshot database at path.
// Pass ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Add appends a record. Records are immutable once stored.
func (s *Store) Add(rec domain.ConditionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ResortID,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.WindSpeed, rec.WindChill, rec.TempMin, rec.TempMax,
		rec.Snowfall12h, rec.Snowfall24h, rec.Snowfall7d, rec.BaseDepth,
		nullString(rec.PrecipType),
		nullBool(rec.Operational),
		rec.LiftsOpen, rec.LiftsTotal, rec.TrailsOpen, rec.TrailsTotal,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent record for a resort, or ErrNotFound.
func (s *Store) Latest(resortID string) (domain.ConditionRecord, error) {
	recs, err := s.Recent(resortID, 1)
	if err != nil {
		return domain.ConditionRecord{}, err
	}
	return recs[0], nil
}

// Recent returns up to limit records for a resort, newest first.
// ErrNotFound when the resort has no snapshots at all.
func (s *Store) Recent(resortID string, limit int) ([]domain.ConditionRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+recordColumns+` FROM snapshots WHERE resort_id = ? ORDER BY timestamp DESC LIMIT ?`,
		resortID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var recs []domain.ConditionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resortID)
	}
	return recs, nil
}

// Prune removes snapshots older than maxAge and, independently, trims each
// resort to its keepLast newest rows. A zero maxAge or keepLast disables
// that criterion. Returns the number of deleted rows.
func (s *Store) Prune(maxAge time.Duration, keepLast int) (int64, error) {
	var deleted int64

	if maxAge > 0 {
		cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339Nano)
		res, err := s.db.Exec(`DELETE FROM snapshots WHERE timestamp < ?`, cutoff)
		if err != nil {
			return deleted, fmt.Errorf("prune by age: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}

	if keepLast > 0 {
		resorts, err := s.resortIDs()
		if err != nil {
			return deleted, err
		}
		for _, id := range resorts {
			res, err := s.db.Exec(
				`DELETE FROM snapshots WHERE resort_id = ? AND id NOT IN (
					SELECT id FROM snapshots WHERE resort_id = ? ORDER BY timestamp DESC LIMIT ?
				)`, id, id, keepLast)
			if err != nil {
				return deleted, fmt.Errorf("prune %s: %w", id, err)
			}
			n, _ := res.RowsAffected()
			deleted += n
		}
	}

	return deleted, nil
}

func (s *Store) resortIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT resort_id FROM snapshots`)
	if err != nil {
		return nil, fmt.Errorf("list resorts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanRecord(rows *sql.Rows) (domain.ConditionRecord, error) {
	var (
		rec         domain.ConditionRecord
		ts          string
		precip      sql.NullString
		operational sql.NullBool
	)
	err := rows.Scan(
		&rec.ResortID, &ts,
		&rec.WindSpeed, &rec.WindChill, &rec.TempMin, &rec.TempMax,
		&rec.Snowfall12h, &rec.Snowfall24h, &rec.Snowfall7d, &rec.BaseDepth,
		&precip, &operational,
		&rec.LiftsOpen, &rec.LiftsTotal, &rec.TrailsOpen, &rec.TrailsTotal,
	)
	if err != nil {
		return domain.ConditionRecord{}, fmt.Errorf("scan snapshot: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return domain.ConditionRecord{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	rec.Timestamp = parsed.UTC()
	if precip.Valid {
		rec.PrecipType = precip.String
	}
	if operational.Valid {
		rec.Operational = domain.Bool(operational.Bool)
	}
	return rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
