package game

import (
	"errors"
	"testing"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/storage"
)

func TestManagerInMemory(t *testing.T) {
	gm := NewManager(nil)
	g, err := gm.CreateGame(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.ID) != 36 {
		t.Errorf("expected uuid id, got %q", g.ID)
	}

	got, err := gm.GetGame(g.ID)
	if err != nil || got != g {
		t.Fatalf("GetGame = %v, %v", got, err)
	}
	if _, err := gm.GetGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame(missing) = %v", err)
	}
	if err := gm.Save(g); err != nil {
		t.Errorf("Save without store: %v", err)
	}
	ids, err := gm.ListGames()
	if err != nil || len(ids) != 1 || ids[0] != g.ID {
		t.Errorf("ListGames = %v, %v", ids, err)
	}
	if err := gm.RemoveGame(g.ID); err != nil {
		t.Fatal(err)
	}
	if err := gm.RemoveGame(g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second RemoveGame = %v", err)
	}
}

func TestManagerArchive(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	gm := NewManager(store)
	g, err := gm.CreateGame(Options{White: Human, Black: Computer, Depth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Play("d2d4"); err != nil {
		t.Fatal(err)
	}
	if err := gm.Save(g); err != nil {
		t.Fatal(err)
	}

	// A fresh manager over the same store reloads the game.
	other := NewManager(store)
	loaded, err := other.GetGame(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded.Position() != *g.Position() || loaded.ToMove() != board.Black {
		t.Error("archived game differs from the live one")
	}
	ids, err := other.ListGames()
	if err != nil || len(ids) != 1 {
		t.Errorf("ListGames = %v, %v", ids, err)
	}

	if err := g.Resign(board.Black); err != nil {
		t.Fatal(err)
	}
	if err := gm.Finish(g); err != nil {
		t.Fatal(err)
	}
	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.WhiteWins != 1 || stats.Resigned != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if err := gm.RemoveGame(g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager(store).GetGame(g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("removed game still loadable: %v", err)
	}
}
