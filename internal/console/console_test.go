package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hailam/minichess/internal/game"
)

func run(t *testing.T, opts game.Options, input string, setup func(*Console)) (string, *game.Game) {
	t.Helper()
	g, err := game.New("test", opts)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	c := New(strings.NewReader(input), &out, game.NewManager(nil), g)
	if setup != nil {
		setup(c)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	return out.String(), g
}

func expect(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestFoolsMate(t *testing.T) {
	out, g := run(t, game.Options{}, "f2f3\ne7e5\ng2g4\nd8h4\nd\n", nil)
	expect(t, out, "White plays f3.", "Black plays Qh4#.", "Checkmate! Black wins.")
	if g.Status() != game.BlackWins {
		t.Errorf("status = %v, want black_wins", g.Status())
	}
}

func TestRejectedMoves(t *testing.T) {
	out, g := run(t, game.Options{}, "e3e4\ne7e5\na1a2\nb1b3\na1a3\nzz\ne2e9\nquit\n", nil)
	expect(t, out,
		"There is no piece on that square.",
		"That piece belongs to your opponent.",
		"You cannot capture your own piece.",
		"That piece cannot move there.",
		"The path is blocked.",
		"Bad input.",
	)
	if len(g.History()) != 0 {
		t.Errorf("rejected moves changed the game: %v", g.History())
	}
}

func TestIntoCheckReason(t *testing.T) {
	setup := "____k___\n____r___\n________\n________\n________\n________\n____B___\n____K___"
	out, _ := run(t, game.Options{Setup: setup}, "e2d3\nquit\n", nil)
	expect(t, out, "That move would leave your king in check.")
}

func TestListPieceMoves(t *testing.T) {
	out, _ := run(t, game.Options{}, "b1\ne1\ne8\nquit\n", nil)
	expect(t, out,
		"Knight b1: a3 c3",
		"The King on e1 has no legal moves.",
		"That piece belongs to your opponent.",
	)
}

func TestCommands(t *testing.T) {
	out, _ := run(t, game.Options{}, "help\nmoves\nperft 2\nsave\nquit\n", nil)
	expect(t, out, "Commands:", "20 legal moves:", "perft 2: 400", "Saved game test.")
}

func TestGoPlaysForSideToMove(t *testing.T) {
	out, g := run(t, game.Options{Depth: 3}, "go depth 1\nquit\n", nil)
	expect(t, out, "White plays ", "Evaluated ")
	if g.Engine().Depth() != 1 {
		t.Errorf("depth = %d, want 1", g.Engine().Depth())
	}
	if len(g.History()) != 1 {
		t.Errorf("history has %d plies, want 1", len(g.History()))
	}
}

func TestComputerMates(t *testing.T) {
	setup := "______k_\n_____ppp\n________\n________\n________\n________\n________\nR______K"
	opts := game.Options{White: game.Computer, Black: game.Human, Depth: 2, Setup: setup}
	out, g := run(t, opts, "", nil)
	expect(t, out, "White plays a1a8 (Ra8#)", "Checkmate! White wins.")
	if winner, over := g.Winner(); !over || winner.String() != "White" {
		t.Errorf("winner = %v over = %v", winner, over)
	}
}

func TestComputerRefusesHumanInput(t *testing.T) {
	opts := game.Options{White: game.Human, Black: game.Computer, Depth: 1}
	out, g := run(t, opts, "e2e4\nquit\n", nil)
	expect(t, out, "White plays e4.", "Black plays ")
	if len(g.History()) != 2 {
		t.Errorf("history has %d plies, want 2", len(g.History()))
	}
}

func TestComputerGameStops(t *testing.T) {
	opts := game.Options{White: game.Computer, Black: game.Computer, Depth: 1}
	out, g := run(t, opts, "", func(c *Console) { c.MaxPlies = 4 })
	expect(t, out, "Stopping after 4 half-moves.")
	if len(g.History()) != 4 {
		t.Errorf("history has %d plies, want 4", len(g.History()))
	}
}

func TestResign(t *testing.T) {
	out, g := run(t, game.Options{}, "resign\n", nil)
	expect(t, out, "White resigns. Black wins.")
	if g.Status() != game.Resigned {
		t.Errorf("status = %v, want resigned", g.Status())
	}
}

func TestVerboseSearchInfo(t *testing.T) {
	out, _ := run(t, game.Options{Depth: 2}, "go\nquit\n", func(c *Console) { c.Verbose = true })
	expect(t, out, "info depth 1 ", "info depth 2 ")
}
