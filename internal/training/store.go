// Package training implements the self-play driver: per-worker
// independent search state generating labelled positions from randomised
// openings, aggregated into a single text file, plus a small Badger-backed
// store for run bookkeeping that survives process restarts.
package training

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyRunPrefix = "run:"

// RunStats is the bookkeeping record kept for one training run.
type RunStats struct {
	RunID        uint64    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	Workers      int       `json:"workers"`
	GamesPlayed  int       `json:"games_played"`
	Positions    int       `json:"positions"`
	WhiteWins    int       `json:"white_wins"`
	BlackWins    int       `json:"black_wins"`
	Draws        int       `json:"draws"`
	LastUpdateAt time.Time `json:"last_update_at"`
}

// Store wraps an embedded Badger database holding one RunStats record
// per training run. It is optional bookkeeping: the mandated
// training_data*.txt output (see driver.go) is produced whether or not
// a Store is attached.
type Store struct {
	db *badger.DB
}

// OpenStore opens (creating if absent) a Badger database under dir.
func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun persists stats for the run, keyed by its run id.
func (s *Store) SaveRun(stats RunStats) error {
	if s == nil {
		return nil
	}
	stats.LastUpdateAt = time.Now()
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("%s%020d", keyRunPrefix, stats.RunID))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// LoadRun returns the stats for runID, or ok=false if no record exists.
func (s *Store) LoadRun(runID uint64) (stats RunStats, ok bool, err error) {
	if s == nil {
		return RunStats{}, false, nil
	}
	key := []byte(fmt.Sprintf("%s%020d", keyRunPrefix, runID))
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	return stats, ok, err
}
