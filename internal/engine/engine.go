package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/hailam/minichess/internal/board"
)

// DefaultDepth is the search depth in half-moves used when none is configured.
const DefaultDepth = 5

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Result is the outcome of a completed search.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	Time  time.Duration
}

// Options configures an Engine.
type Options struct {
	Depth    int  // Search depth in half-moves (0 = DefaultDepth)
	Parallel bool // Search root moves concurrently
	Workers  int  // Parallel workers (0 = GOMAXPROCS)
}

// Engine is the chess AI engine.
type Engine struct {
	opts Options

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine.
func NewEngine(opts Options) *Engine {
	if opts.Depth <= 0 {
		opts.Depth = DefaultDepth
	}
	return &Engine{opts: opts}
}

// SetDepth sets the search depth. Values below 1 are ignored.
func (e *Engine) SetDepth(depth int) {
	if depth >= 1 {
		e.opts.Depth = depth
	}
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.opts.Depth
}

// BestMove searches pos for side and returns the chosen move. The search deepens
// one half-move at a time up to the configured depth, reporting each
// completed iteration through OnInfo; the result is that of the final
// iteration. The position is never modified.
//
// Cancellation is checked between root moves only. A cancelled search returns
// the context error and the result of the last completed iteration.
func (e *Engine) BestMove(ctx context.Context, pos *board.Position, side board.Color) (Result, error) {
	start := time.Now()
	root := pos.Copy()
	result := Result{Move: board.NoMove}

	for depth := 1; depth <= e.opts.Depth; depth++ {
		move, score, nodes, err := e.searchDepth(ctx, root, side, depth)
		result.Nodes += nodes
		if err != nil {
			result.Time = time.Since(start)
			return result, err
		}

		result.Move = move
		result.Score = score
		result.Depth = depth
		result.Time = time.Since(start)

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: result.Nodes,
				Time:  result.Time,
				Move:  move,
			})
		}

		if move == board.NoMove {
			break
		}
	}

	return result, nil
}

func (e *Engine) searchDepth(ctx context.Context, pos *board.Position, side board.Color, depth int) (board.Move, int, uint64, error) {
	if e.opts.Parallel {
		return searchRootParallel(ctx, pos, side, depth, e.opts.Workers)
	}
	s := NewSearcher()
	move, score, err := s.Search(ctx, pos, side, depth)
	return move, score, s.Nodes(), err
}

// Perft counts the leaf nodes of the legal move tree of the given depth
// (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, side board.Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves(side)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	scratch := pos.Copy()
	for _, m := range moves {
		scratch.Restore(pos)
		if _, err := scratch.Apply(m); err != nil {
			continue
		}
		nodes += e.Perft(scratch, side.Other(), depth-1)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string from White's
// point of view.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		mateIn := (MateScore - score + 1) / 2
		return "White mates in " + strconv.Itoa(mateIn)
	}
	if score < -MateScore+MaxPly {
		mateIn := (MateScore + score + 1) / 2
		return "Black mates in " + strconv.Itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
