package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/storage"
)

// State is the JSON view of a game sent to clients.
type State struct {
	ID       string     `json:"id"`
	Board    string     `json:"board"`
	FEN      string     `json:"fen"`
	Rows     []string   `json:"rows"`
	ToMove   string     `json:"toMove"`
	Status   string     `json:"status"`
	IsCheck  bool       `json:"isCheck"`
	Winner   *string    `json:"winner"`
	Moves    []string   `json:"moves"`
	SAN      []string   `json:"san"`
	LastMove *string    `json:"lastMove"`
	Captured Captured   `json:"capturedPieces"`
	White    Controller `json:"white"`
	Black    Controller `json:"black"`
	Depth    int        `json:"depth"`
}

// Captured lists captured piece symbols by the side that lost them.
type Captured struct {
	White []string `json:"white"`
	Black []string `json:"black"`
}

func colorName(c board.Color) string {
	return strings.ToLower(c.String())
}

// State returns a snapshot of the game for clients.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	setup := g.pos.SetupString()
	st := State{
		ID:       g.ID,
		Board:    setup,
		FEN:      g.pos.FEN(g.toMove),
		Rows:     strings.Fields(setup),
		ToMove:   colorName(g.toMove),
		Status:   g.status.String(),
		IsCheck:  g.status == Check || (g.isOver() && g.status != Resigned),
		Moves:    make([]string, 0, len(g.history)),
		SAN:      make([]string, 0, len(g.history)),
		Captured: Captured{White: []string{}, Black: []string{}},
		White:    g.players[board.White],
		Black:    g.players[board.Black],
		Depth:    g.engine.Depth(),
	}
	if g.isOver() {
		w := colorName(g.winner)
		st.Winner = &w
	}
	for _, p := range g.history {
		st.Moves = append(st.Moves, p.Move.String())
		st.SAN = append(st.SAN, p.SAN)
		if p.Captured.IsNone() {
			continue
		}
		if p.Captured.Color == board.White {
			st.Captured.White = append(st.Captured.White, p.Captured.String())
		} else {
			st.Captured.Black = append(st.Captured.Black, p.Captured.String())
		}
	}
	if n := len(st.Moves); n > 0 {
		last := st.Moves[n-1]
		st.LastMove = &last
	}
	return st
}

// Record converts the game into an archive record.
func (g *Game) Record() *storage.Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec := &storage.Record{
		ID:        g.ID,
		Setup:     g.setup,
		Moves:     make([]string, 0, len(g.history)),
		Status:    g.status.String(),
		White:     g.players[board.White],
		Black:     g.players[board.Black],
		Depth:     g.engine.Depth(),
		CreatedAt: g.created,
		UpdatedAt: g.updated,
	}
	if g.isOver() {
		rec.Winner = colorName(g.winner)
	}
	for _, p := range g.history {
		rec.Moves = append(rec.Moves, p.Move.String())
	}
	return rec
}

// FromRecord rebuilds a game by replaying an archived record.
func FromRecord(rec *storage.Record) (*Game, error) {
	g, err := New(rec.ID, Options{
		White: rec.White,
		Black: rec.Black,
		Depth: rec.Depth,
		FEN:   rec.Setup,
	})
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", rec.ID, err)
	}
	for i, s := range rec.Moves {
		if _, err := g.Play(s); err != nil {
			return nil, fmt.Errorf("restore %s: move %d (%s): %w", rec.ID, i+1, s, err)
		}
	}

	if status, ok := ParseStatus(rec.Status); ok && status == Resigned {
		loser := board.White
		if rec.Winner == "white" {
			loser = board.Black
		}
		if err := g.Resign(loser); err != nil {
			return nil, fmt.Errorf("restore %s: %w", rec.ID, err)
		}
	}
	if !rec.CreatedAt.IsZero() {
		g.created = rec.CreatedAt
	}
	if !rec.UpdatedAt.IsZero() {
		g.updated = rec.UpdatedAt
	}
	return g, nil
}

// age is how long ago the game last changed.
func (g *Game) age(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return now.Sub(g.updated)
}
