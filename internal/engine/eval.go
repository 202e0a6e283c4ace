// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/hailam/minichess/internal/board"
)

// Evaluate returns the static evaluation of a position from White's point of
// view: the signed material balance, kings included.
func Evaluate(pos *board.Position) int {
	return pos.Material()
}

// matedScore is the score of a node where side is checkmated, ply half-moves
// below the root. Shorter mates score further from zero.
func matedScore(side board.Color, ply int) int {
	if side == board.White {
		return -MateScore + ply
	}
	return MateScore - ply
}

// leafScore evaluates a node at the search horizon. A checkmated side is scored
// as lost instead of by material.
func leafScore(pos *board.Position, side board.Color, ply int) int {
	if pos.InCheck(side) && !pos.HasLegalMoves(side) {
		return matedScore(side, ply)
	}
	return Evaluate(pos)
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}
