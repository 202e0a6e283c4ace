package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keySettings   = "settings"
	keyStats      = "stats"
	gameKeyPrefix = "game:"
)

// ErrNotFound is returned when a requested game is not in the archive.
var ErrNotFound = errors.New("storage: not found")

// Controller names who moves for a side: "human" or "computer".
type Controller string

const (
	Human    Controller = "human"
	Computer Controller = "computer"
)

// Settings stores the defaults used when a new game is started
type Settings struct {
	Depth      int        `json:"depth"`
	White      Controller `json:"white"`
	Black      Controller `json:"black"`
	Parallel   bool       `json:"parallel"`
	LastPlayed time.Time  `json:"last_played"`
}

// DefaultSettings returns default settings: human (White) against the computer
// searching five half-moves deep.
func DefaultSettings() *Settings {
	return &Settings{
		Depth:      5,
		White:      Human,
		Black:      Computer,
		LastPlayed: time.Now(),
	}
}

// Record is an archived game. The game is reconstructed by replaying Moves
// from Setup, the starting position in FEN.
type Record struct {
	ID        string     `json:"id"`
	Setup     string     `json:"setup"`
	Moves     []string   `json:"moves"`
	Status    string     `json:"status"`
	Winner    string     `json:"winner,omitempty"`
	White     Controller `json:"white"`
	Black     Controller `json:"black"`
	Depth     int        `json:"depth"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Summary is the listing entry for an archived game.
type Summary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Moves     int       `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameStats stores results of finished games
type GameStats struct {
	GamesPlayed int           `json:"games_played"`
	WhiteWins   int           `json:"white_wins"`
	BlackWins   int           `json:"black_wins"`
	Resigned    int           `json:"resigned"`
	TotalPlies  int           `json:"total_plies"`
	TotalTime   time.Duration `json:"total_time"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the archive in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (creating if needed) the archive in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gameKeyPrefix + id)
}

// SaveGame writes a game record, replacing any earlier version.
func (s *Storage) SaveGame(rec *Record) error {
	if rec.ID == "" {
		return errors.New("storage: record without id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.UpdatedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame reads a game record. Missing games return ErrNotFound.
func (s *Storage) LoadGame(id string) (*Record, error) {
	var rec Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListGames returns a summary of every archived game, most recently updated
// first.
func (s *Storage) ListGames() ([]Summary, error) {
	var out []Summary

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gameKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().KeyCopy(nil), err)
			}
			out = append(out, Summary{
				ID:        rec.ID,
				Status:    rec.Status,
				Moves:     len(rec.Moves),
				UpdatedAt: rec.UpdatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// DeleteGame removes a game record. Deleting a missing game returns ErrNotFound.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("game %s: %w", id, ErrNotFound)
			}
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// SaveSettings saves the new-game defaults
func (s *Storage) SaveSettings(settings *Settings) error {
	settings.LastPlayed = time.Now()

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySettings), data)
	})
}

// LoadSettings loads the new-game defaults, returns defaults if not found
func (s *Storage) LoadSettings() (*Settings, error) {
	settings := DefaultSettings()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySettings))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, settings)
		})
	})

	return settings, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordResult adds a finished game to the statistics. The winner is "white"
// or "black"; resigned marks a game that ended by resignation.
func (s *Storage) RecordResult(winner string, resigned bool, plies int, duration time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		stats := &GameStats{}
		item, err := txn.Get([]byte(keyStats))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			}); err != nil {
				return err
			}
		}

		stats.GamesPlayed++
		stats.TotalPlies += plies
		stats.TotalTime += duration
		switch winner {
		case "white":
			stats.WhiteWins++
		case "black":
			stats.BlackWins++
		}
		if resigned {
			stats.Resigned++
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// WhiteScore returns White's share of decided games as a percentage (0-100)
func (s *GameStats) WhiteScore() float64 {
	decided := s.WhiteWins + s.BlackWins
	if decided == 0 {
		return 0
	}
	return float64(s.WhiteWins) / float64(decided) * 100
}
