package engine

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/minichess/internal/board"
)

// rootResult is the outcome of searching one root move.
type rootResult struct {
	move  board.Move
	score int
}

// searchRootParallel searches every root move of side on its own worker with a
// full window. Results are merged in root order with the same strict
// comparison as the sequential search, so both return the same move and score.
func searchRootParallel(ctx context.Context, pos *board.Position, side board.Color, depth, workers int) (board.Move, int, uint64, error) {
	if depth < 1 {
		depth = 1
	}
	moves := pos.GenerateLegalMoves(side)
	if len(moves) == 0 {
		s := NewSearcher()
		return board.NoMove, s.noMoves(pos, side, 0), 1, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]rootResult, len(moves))
	var nodes atomic.Uint64
	nodes.Add(1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			child := pos.Copy()
			if _, err := child.Apply(m); err != nil {
				return err
			}
			s := NewSearcher()
			score := s.alphaBeta(child, side.Other(), -Infinity, Infinity, depth-1, 1)
			nodes.Add(s.Nodes())
			results[i] = rootResult{move: m, score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return board.NoMove, 0, nodes.Load(), err
	}

	best := results[0]
	for _, r := range results[1:] {
		if side == board.White && r.score > best.score {
			best = r
		}
		if side == board.Black && r.score < best.score {
			best = r
		}
	}
	return best.move, best.score, nodes.Load(), nil
}
