// Package stats records per-day rephrase counts in a local sqlite database.
package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	retentionDays = 30
	dayFormat     = "2006-01-02"
)

// Summary is the aggregate shown to the user.
type Summary struct {
	Today      int
	Total      int
	DaysActive int
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the stats database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create stats dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats db: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping stats db: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS rephrases (
		day TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);`
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to create stats schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record increments the count for the day of at and prunes entries older
// than the retention window.
func (s *Store) Record(at time.Time) error {
	day := at.Format(dayFormat)

	_, err := s.db.Exec(`INSERT INTO rephrases(day, count) VALUES(?, 1)
		ON CONFLICT(day) DO UPDATE SET count = count + 1`, day)
	if err != nil {
		return fmt.Errorf("failed to record rephrase: %w", err)
	}

	cutoff := at.AddDate(0, 0, -retentionDays).Format(dayFormat)
	if _, err = s.db.Exec(`DELETE FROM rephrases WHERE day < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to prune old stats: %w", err)
	}

	return nil
}

// Summarize reports today's count, the retention-window total, and the
// number of active days, relative to now.
func (s *Store) Summarize(now time.Time) (Summary, error) {
	cutoff := now.AddDate(0, 0, -retentionDays).Format(dayFormat)
	today := now.Format(dayFormat)

	var sum Summary

	row := s.db.QueryRow(`SELECT COALESCE(SUM(count), 0), COUNT(*) FROM rephrases WHERE day >= ?`, cutoff)
	if err := row.Scan(&sum.Total, &sum.DaysActive); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize stats: %w", err)
	}

	row = s.db.QueryRow(`SELECT COALESCE(count, 0) FROM rephrases WHERE day = ?`, today)
	if err := row.Scan(&sum.Today); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sum, nil
		}

		return Summary{}, fmt.Errorf("failed to read today's count: %w", err)
	}

	return sum, nil
}
