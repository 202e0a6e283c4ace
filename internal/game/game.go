// Package game runs a chess game session: the authoritative position, side to
// move, history, result and who controls each side.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/storage"
)

var (
	ErrGameOver     = errors.New("game is over")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrGameNotFound = errors.New("game not found")
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrInvalidSetup = errors.New("invalid setup")
)

// Status is the state of a game.
type Status int

const (
	Active Status = iota
	Check
	WhiteWins
	BlackWins
	Resigned
)

var statusNames = [...]string{"active", "check", "white_wins", "black_wins", "resigned"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), true
		}
	}
	return Active, false
}

// Controller says who moves for a side.
type Controller = storage.Controller

const (
	Human    = storage.Human
	Computer = storage.Computer
)

// ParseController accepts "human"/"computer" and the one-letter forms.
func ParseController(s string) (Controller, bool) {
	switch s {
	case "human", "h":
		return Human, true
	case "computer", "c":
		return Computer, true
	}
	return "", false
}

// Ply is one played half-move.
type Ply struct {
	Move     board.Move  `json:"-"`
	Color    board.Color `json:"-"`
	SAN      string      `json:"san"`
	Captured board.Piece `json:"-"`
}

// Game is a single game session. All methods are safe for concurrent use.
type Game struct {
	ID string

	mu      sync.Mutex
	setup   string
	pos     *board.Position
	toMove  board.Color
	history []Ply
	status  Status
	winner  board.Color
	players [2]Controller
	engine  *engine.Engine
	created time.Time
	updated time.Time
}

// Options configures a new game.
type Options struct {
	White    Controller
	Black    Controller
	Depth    int
	Parallel bool
	// Setup is a board setup grid; empty means the standard start.
	Setup string
	// FEN overrides Setup and may hand the first move to Black.
	FEN string
}

// New starts a game. White moves first unless a FEN says otherwise.
func New(id string, opts Options) (*Game, error) {
	pos := board.StartPosition()
	side := board.White
	var err error
	switch {
	case opts.FEN != "":
		if pos, side, err = board.ParseFEN(opts.FEN); err != nil {
			return nil, err
		}
	case opts.Setup != "":
		if pos, err = board.ParseBoard(opts.Setup); err != nil {
			return nil, err
		}
	}
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	// The king of the side that just moved can never be left attacked.
	if pos.InCheck(side.Other()) {
		return nil, fmt.Errorf("%w: %s is in check with %s to move", ErrInvalidSetup, side.Other(), side)
	}
	if opts.White == "" {
		opts.White = Human
	}
	if opts.Black == "" {
		opts.Black = Human
	}

	eng := engine.NewEngine(engine.Options{Depth: opts.Depth, Parallel: opts.Parallel})
	now := time.Now()
	g := &Game{
		ID:      id,
		setup:   pos.FEN(side),
		pos:     pos,
		toMove:  side,
		players: [2]Controller{opts.White, opts.Black},
		engine:  eng,
		created: now,
		updated: now,
	}
	g.updateStatus()
	return g, nil
}

// Move plays m for color c. Rejected moves leave the game unchanged and return
// ErrGameOver, ErrNotYourTurn or one of the board move errors.
func (g *Game) Move(c board.Color, m board.Move) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.move(c, m)
}

// Play parses a move command and plays it for the side to move.
func (g *Game) Play(cmd string) (Ply, error) {
	m, err := board.ParseMove(cmd)
	if err != nil {
		return Ply{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.move(g.toMove, m)
}

func (g *Game) move(c board.Color, m board.Move) (Ply, error) {
	if g.isOver() {
		return Ply{}, ErrGameOver
	}
	if c != g.toMove {
		return Ply{}, ErrNotYourTurn
	}
	if err := g.pos.ValidateMove(c, m); err != nil {
		return Ply{}, err
	}

	san := m.ToSAN(g.pos)
	captured, err := g.pos.Apply(m)
	if err != nil {
		return Ply{}, err
	}

	ply := Ply{Move: m, Color: c, SAN: san, Captured: captured}
	g.history = append(g.history, ply)
	g.toMove = c.Other()
	g.updated = time.Now()
	g.updateStatus()
	return ply, nil
}

// updateStatus recomputes check and checkmate for the side to move.
func (g *Game) updateStatus() {
	if !g.pos.InCheck(g.toMove) {
		g.status = Active
		return
	}
	if g.pos.HasLegalMoves(g.toMove) {
		g.status = Check
		return
	}
	g.winner = g.toMove.Other()
	if g.winner == board.White {
		g.status = WhiteWins
	} else {
		g.status = BlackWins
	}
}

// EngineMove lets the engine choose and play a move for the side to move.
func (g *Game) EngineMove(ctx context.Context) (Ply, engine.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isOver() {
		return Ply{}, engine.Result{}, ErrGameOver
	}
	res, err := g.engine.BestMove(ctx, g.pos, g.toMove)
	if err != nil {
		return Ply{}, res, err
	}
	if res.Move == board.NoMove {
		return Ply{}, res, fmt.Errorf("%s to move: %w", g.toMove, ErrNoLegalMoves)
	}
	ply, err := g.move(g.toMove, res.Move)
	return ply, res, err
}

// Resign ends the game with a win for the other side.
func (g *Game) Resign(c board.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isOver() {
		return ErrGameOver
	}
	g.status = Resigned
	g.winner = c.Other()
	g.updated = time.Now()
	return nil
}

// LegalMovesFrom lists the destinations of the side to move's piece on sq.
func (g *Game) LegalMovesFrom(sq board.Square) []board.Square {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos.LegalMoves(g.toMove, sq)
}

// LegalMoves lists every legal move of the side to move.
func (g *Game) LegalMoves() []board.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos.GenerateLegalMoves(g.toMove)
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos.Copy()
}

// ToMove returns the side to move.
func (g *Game) ToMove() board.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove
}

// Status returns the game status.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Winner returns the winning side once the game is over.
func (g *Game) Winner() (board.Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner, g.isOver()
}

// IsOver reports whether the game has ended.
func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isOver()
}

func (g *Game) isOver() bool {
	return g.status == WhiteWins || g.status == BlackWins || g.status == Resigned
}

// Controller returns who moves for color c.
func (g *Game) Controller(c board.Color) Controller {
	return g.players[c]
}

// Engine returns the game's engine.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// History returns the plies played so far.
func (g *Game) History() []Ply {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Ply(nil), g.history...)
}

// Duration is the time between the game's creation and its last move.
func (g *Game) Duration() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updated.Sub(g.created)
}
