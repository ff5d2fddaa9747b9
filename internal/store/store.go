// Package store persists the tracking state: the owned corpus, the
// in-flight pending batch, and the approved/rejected history. It is
// the only durable state in the system.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/calebmls/attune/internal/migration"
)

// The four record collections. Owned and approved together form the
// taste corpus; the union of all four is the exclusion set.
const (
	StateOwned    = "owned"
	StatePending  = "pending"
	StateApproved = "approved"
	StateRejected = "rejected"
)

// ErrCorrupt marks an unreadable persisted record. Corruption is fatal
// for the run; records are never silently dropped or guessed at.
var ErrCorrupt = errors.New("tracking store record corrupt")

type Store struct {
	db       *sql.DB
	lockPath string
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(migration.Create); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db, lockPath: dbPath + ".lock"}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Counts returns the record count per collection.
func (s *Store) Counts() (map[string]int, error) {
	rows, err := s.db.Query("SELECT state, COUNT(*) FROM Track GROUP BY state")
	if err != nil {
		return nil, fmt.Errorf("counting tracks: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		StateOwned:    0,
		StatePending:  0,
		StateApproved: 0,
		StateRejected: 0,
	}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

// ExclusionSet returns every track identifier across all four
// collections. The generator must never propose a member again.
func (s *Store) ExclusionSet() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT DISTINCT id FROM Track")
	if err != nil {
		return nil, fmt.Errorf("querying exclusion set: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning exclusion set: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}
