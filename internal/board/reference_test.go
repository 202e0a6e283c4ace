package board

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/notnil/chess"
)

func ourMoves(pos *Position, side Color) []string {
	var out []string
	for _, m := range pos.GenerateLegalMoves(side) {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

// referenceMoves lists legal moves as from/to pairs; the four promotion
// choices on one square collapse into a single entry.
func referenceMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("reference rejected FEN %q: %v", fen, err)
	}
	game := chess.NewGame(opt)
	seen := make(map[string]bool)
	var out []string
	for _, m := range game.ValidMoves() {
		s := m.S1().String() + m.S2().String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func compareWithReference(t *testing.T, pos *Position, side Color) {
	t.Helper()
	fen := pos.FEN(side)
	got := ourMoves(pos, side)
	want := referenceMoves(t, fen)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("move mismatch for %s\n got: %v\nwant: %v\n%s", fen, got, want, pos)
	}
}

func TestReferenceFixedPositions(t *testing.T) {
	grids := []string{
		StartSetup,
		// The well-known "kiwipete" middlegame.
		`r___k__r
p_ppqpb_
bn__pnp_
___PN___
_p__P___
__N__Q_p
PPPBBPPP
R___K__R`,
		`r___k__r
________
________
________
________
________
________
R___K__R`,
		`____k___
____r___
________
________
________
________
____B___
____K___`,
	}

	for i, grid := range grids {
		pos, err := ParseBoard(grid)
		if err != nil {
			t.Fatal(err)
		}
		for _, side := range []Color{White, Black} {
			t.Run(strconv.Itoa(i)+"/"+side.String(), func(t *testing.T) {
				compareWithReference(t, pos, side)
			})
		}
	}
}

// promotionPending reports whether a pawn stands one step from the far row,
// where the two rule sets part ways.
func promotionPending(pos *Position) bool {
	for x := 0; x < 8; x++ {
		if pc := pos.PieceAt(NewSquare(x, 1)); pc.Type == Pawn && pc.Color == White {
			return true
		}
		if pc := pos.PieceAt(NewSquare(x, 6)); pc.Type == Pawn && pc.Color == Black {
			return true
		}
	}
	return false
}

// TestReferenceGameWalk plays deterministic pseudo-random games and compares
// the legal move lists at every ply.
func TestReferenceGameWalk(t *testing.T) {
	plies := 60
	if testing.Short() {
		plies = 20
	}

	for seed := 1; seed <= 4; seed++ {
		pos := StartPosition()
		side := White
		for ply := 0; ply < plies; ply++ {
			if promotionPending(pos) {
				break
			}
			compareWithReference(t, pos, side)
			if t.Failed() {
				return
			}
			moves := pos.GenerateLegalMoves(side)
			if len(moves) == 0 {
				break
			}
			m := moves[(ply*7+seed*13)%len(moves)]
			if _, err := pos.Apply(m); err != nil {
				t.Fatal(err)
			}
			side = side.Other()
		}
	}
}
