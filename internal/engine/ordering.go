package engine

import (
	"slices"

	"github.com/hailam/minichess/internal/board"
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
var mvvLva = [7][7]int{
	//            -   P   N   B   R   Q   K  (attacker)
	/* - */ {0, 0, 0, 0, 0, 0, 0},
	/* P */ {0, 15, 14, 14, 13, 12, 11},
	/* N */ {0, 25, 24, 24, 23, 22, 21},
	/* B */ {0, 35, 34, 34, 33, 32, 31},
	/* R */ {0, 45, 44, 44, 43, 42, 41},
	/* Q */ {0, 55, 54, 54, 53, 52, 51},
	/* K */ {0, 65, 64, 64, 63, 62, 61},
}

// scoreMove returns the ordering score for a move: captures by MVV-LVA, quiet
// moves zero.
func scoreMove(pos *board.Position, m board.Move) int {
	victim := pos.PieceAt(m.To)
	if victim.IsNone() {
		return 0
	}
	attacker := pos.PieceAt(m.From)
	return mvvLva[victim.Type][attacker.Type]
}

// orderMoves sorts captures ahead of quiet moves. The sort is stable, so moves
// of equal score keep their row-major order and the search stays deterministic.
func orderMoves(pos *board.Position, moves []board.Move) {
	slices.SortStableFunc(moves, func(a, b board.Move) int {
		return scoreMove(pos, b) - scoreMove(pos, a)
	})
}
