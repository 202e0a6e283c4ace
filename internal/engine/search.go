package engine

import (
	"context"

	"github.com/hailam/minichess/internal/board"
)

// Search constants
const (
	Infinity  = 10_000_000
	MateScore = 1_000_000
	MaxPly    = 128
)

// Searcher performs a fixed-depth minimax search with alpha-beta pruning.
// White maximizes and Black minimizes. A Searcher is not safe for concurrent
// use; parallel root search gives every worker its own.
type Searcher struct {
	nodes uint64

	// ordering enables capture-first ordering below the root.
	ordering bool
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{ordering: true}
}

// Nodes returns the number of nodes searched since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Search returns the best move for side and its score at the given depth.
// Root moves are tried in row-major order and a later move replaces the best
// so far only if it scores strictly better. With no legal move the result is
// NoMove and the node's own score.
//
// ctx is checked before each root move; on cancellation the best move so far
// is returned together with the context error.
func (s *Searcher) Search(ctx context.Context, pos *board.Position, side board.Color, depth int) (board.Move, int, error) {
	if depth < 1 {
		depth = 1
	}
	s.nodes++

	moves := pos.GenerateLegalMoves(side)
	if len(moves) == 0 {
		return board.NoMove, s.noMoves(pos, side, 0), nil
	}

	alpha, beta := -Infinity, Infinity
	bestMove := board.NoMove
	bestScore := Infinity
	if side == board.White {
		bestScore = -Infinity
	}

	scratch := pos.Copy()
	for _, m := range moves {
		if err := ctx.Err(); err != nil {
			return bestMove, bestScore, err
		}
		scratch.Restore(pos)
		if _, err := scratch.Apply(m); err != nil {
			continue
		}
		score := s.alphaBeta(scratch, side.Other(), alpha, beta, depth-1, 1)

		if side == board.White {
			if score > bestScore {
				bestScore, bestMove = score, m
			}
			alpha = max(alpha, score)
		} else {
			if score < bestScore {
				bestScore, bestMove = score, m
			}
			beta = min(beta, score)
		}
	}

	return bestMove, bestScore, nil
}

// alphaBeta is the fail-hard recursion. A max node that reaches beta returns
// beta, otherwise its raised alpha; a min node mirrors this with alpha.
func (s *Searcher) alphaBeta(pos *board.Position, side board.Color, alpha, beta, depth, ply int) int {
	s.nodes++

	if depth == 0 {
		return leafScore(pos, side, ply)
	}

	moves := pos.GenerateLegalMoves(side)
	if len(moves) == 0 {
		return s.noMoves(pos, side, ply)
	}
	if s.ordering {
		orderMoves(pos, moves)
	}

	scratch := pos.Copy()
	if side == board.White {
		for _, m := range moves {
			scratch.Restore(pos)
			if _, err := scratch.Apply(m); err != nil {
				continue
			}
			score := s.alphaBeta(scratch, board.Black, alpha, beta, depth-1, ply+1)
			if score >= beta {
				return beta
			}
			if score > alpha {
				alpha = score
			}
		}
		return alpha
	}

	for _, m := range moves {
		scratch.Restore(pos)
		if _, err := scratch.Apply(m); err != nil {
			continue
		}
		score := s.alphaBeta(scratch, board.White, alpha, beta, depth-1, ply+1)
		if score <= alpha {
			return alpha
		}
		if score < beta {
			beta = score
		}
	}
	return beta
}

// noMoves scores a node without legal moves: mated if in check, otherwise the
// static evaluation.
func (s *Searcher) noMoves(pos *board.Position, side board.Color, ply int) int {
	if pos.InCheck(side) {
		return matedScore(side, ply)
	}
	return Evaluate(pos)
}
