package game

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/minichess/internal/storage"
)

// Manager keeps the live games by id and archives them in storage.
type Manager struct {
	games map[string]*Game
	store *storage.Storage // nil disables the archive
	mu    sync.RWMutex
}

// NewManager creates a manager. store may be nil.
func NewManager(store *storage.Storage) *Manager {
	return &Manager{
		games: make(map[string]*Game),
		store: store,
	}
}

// CreateGame starts a new game under a fresh id.
func (gm *Manager) CreateGame(opts Options) (*Game, error) {
	g, err := New(uuid.New().String(), opts)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	gm.games[g.ID] = g
	gm.mu.Unlock()
	return g, nil
}

// GetGame returns a live game, loading it from the archive if needed.
func (gm *Manager) GetGame(id string) (*Game, error) {
	gm.mu.RLock()
	g, ok := gm.games[id]
	gm.mu.RUnlock()
	if ok {
		return g, nil
	}

	if gm.store == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrGameNotFound)
	}
	rec, err := gm.store.LoadGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrGameNotFound)
	}
	if err != nil {
		return nil, err
	}
	g, err = FromRecord(rec)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if existing, ok := gm.games[id]; ok {
		return existing, nil
	}
	gm.games[id] = g
	return g, nil
}

// Save archives the game. Without a store it is a no-op.
func (gm *Manager) Save(g *Game) error {
	if gm.store == nil {
		return nil
	}
	return gm.store.SaveGame(g.Record())
}

// Finish archives a finished game and adds it to the statistics.
func (gm *Manager) Finish(g *Game) error {
	if err := gm.Save(g); err != nil {
		return err
	}
	winner, over := g.Winner()
	if gm.store == nil || !over {
		return nil
	}
	err := gm.store.RecordResult(colorName(winner), g.Status() == Resigned, len(g.History()), g.Duration())
	if err != nil {
		return err
	}
	log.Printf("game %s finished: %s wins (%s)", g.ID, colorName(winner), g.Status())
	return nil
}

// ListGames returns ids of live and archived games, newest first.
func (gm *Manager) ListGames() ([]string, error) {
	seen := make(map[string]bool)
	var ids []string

	gm.mu.RLock()
	live := make([]*Game, 0, len(gm.games))
	for _, g := range gm.games {
		live = append(live, g)
	}
	gm.mu.RUnlock()

	now := time.Now()
	sort.Slice(live, func(i, j int) bool {
		return live[i].age(now) < live[j].age(now)
	})
	for _, g := range live {
		seen[g.ID] = true
		ids = append(ids, g.ID)
	}

	if gm.store != nil {
		archived, err := gm.store.ListGames()
		if err != nil {
			return nil, err
		}
		for _, s := range archived {
			if !seen[s.ID] {
				ids = append(ids, s.ID)
			}
		}
	}
	return ids, nil
}

// RemoveGame drops a game from memory and the archive.
func (gm *Manager) RemoveGame(id string) error {
	gm.mu.Lock()
	_, live := gm.games[id]
	delete(gm.games, id)
	gm.mu.Unlock()

	if gm.store == nil {
		if !live {
			return fmt.Errorf("%s: %w", id, ErrGameNotFound)
		}
		return nil
	}
	err := gm.store.DeleteGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		if live {
			return nil
		}
		return fmt.Errorf("%s: %w", id, ErrGameNotFound)
	}
	return err
}
