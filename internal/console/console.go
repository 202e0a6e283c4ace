// Package console implements the line-oriented interactive game loop.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/game"
)

// Console drives one game from a command stream.
type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	manager *game.Manager
	game    *game.Game

	// MaxPlies stops computer-only games after this many half-moves (0 = no limit).
	MaxPlies int
	// Verbose prints a line per completed search iteration.
	Verbose bool
}

// New creates a console for g reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, gm *game.Manager, g *game.Game) *Console {
	return &Console{
		in:      bufio.NewScanner(in),
		out:     out,
		manager: gm,
		game:    g,
	}
}

// Run shows the board and processes commands until quit, end of input or the
// end of the game. Computer sides move on their own.
func (c *Console) Run(ctx context.Context) error {
	if c.Verbose {
		c.game.Engine().OnInfo = func(info engine.SearchInfo) {
			c.printf("info depth %d score %s nodes %d time %dms move %s\n",
				info.Depth, engine.ScoreToString(info.Score), info.Nodes, info.Time.Milliseconds(), info.Move)
		}
	}

	c.printf("%s", c.game.Position())
	c.printf("\nEnter a move. a1b2 means move from a1 to b2. Type help for commands.\n")

	for {
		done, err := c.autoplay(ctx)
		if err != nil || done {
			return err
		}

		c.prompt()
		if !c.in.Scan() {
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			c.handleHelp()
		case "d":
			c.printf("%s", c.game.Position())
		case "moves":
			c.handleMoves()
		case "go":
			if err := c.handleGo(ctx, args); err != nil {
				return err
			}
		case "save":
			c.handleSave()
		case "resign":
			c.handleResign()
		case "perft":
			c.handlePerft(args)
		default:
			switch len(cmd) {
			case 2:
				c.handleSquare(cmd)
			default:
				c.handleMove(cmd)
			}
		}

		if c.game.IsOver() {
			c.announceResult()
			return nil
		}
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) prompt() {
	c.printf("%s> ", c.game.ToMove())
}

// autoplay lets the engine move for every computer-controlled side to move.
// It reports done when the game cannot continue.
func (c *Console) autoplay(ctx context.Context) (bool, error) {
	for !c.game.IsOver() && c.game.Controller(c.game.ToMove()) == game.Computer {
		if c.MaxPlies > 0 && len(c.game.History()) >= c.MaxPlies {
			c.printf("Stopping after %d half-moves.\n", c.MaxPlies)
			c.handleSave()
			return true, nil
		}
		if err := c.engineMove(ctx); err != nil {
			if errors.Is(err, game.ErrNoLegalMoves) {
				c.printf("%s has no legal moves.\n", c.game.ToMove())
				return true, nil
			}
			return true, err
		}
	}
	if c.game.IsOver() {
		c.announceResult()
		return true, nil
	}
	if len(c.game.LegalMoves()) == 0 {
		c.printf("%s has no legal moves.\n", c.game.ToMove())
		return true, nil
	}
	return false, nil
}

func (c *Console) engineMove(ctx context.Context) error {
	side := c.game.ToMove()
	ply, res, err := c.game.EngineMove(ctx)
	if err != nil {
		return err
	}
	c.printf("%s plays %s (%s). Evaluated %d game states, score %s.\n",
		side, ply.Move, ply.SAN, res.Nodes, engine.ScoreToString(res.Score))
	c.afterMove()
	return nil
}

func (c *Console) afterMove() {
	c.printf("%s", c.game.Position())
	if c.game.Status() == game.Check {
		c.printf("%s is in check.\n", c.game.ToMove())
	}
}

func (c *Console) announceResult() {
	winner, _ := c.game.Winner()
	switch c.game.Status() {
	case game.Resigned:
		c.printf("%s resigns. %s wins.\n", winner.Other(), winner)
	default:
		c.printf("Checkmate! %s wins.\n", winner)
	}
	if c.manager != nil {
		if err := c.manager.Finish(c.game); err != nil {
			c.printf("Could not archive game: %v\n", err)
		}
	}
}

// reason turns a rejected move into a message for the player.
func reason(err error) string {
	switch {
	case errors.Is(err, board.ErrMalformedInput):
		return "Bad input. Enter a move like e2e4."
	case errors.Is(err, board.ErrNoPieceAtSource):
		return "There is no piece on that square."
	case errors.Is(err, board.ErrNotOwner):
		return "That piece belongs to your opponent."
	case errors.Is(err, board.ErrOwnPieceAtDestination):
		return "You cannot capture your own piece."
	case errors.Is(err, board.ErrGeometricallyInvalid):
		return "That piece cannot move there."
	case errors.Is(err, board.ErrPathObstructed):
		return "The path is blocked."
	case errors.Is(err, board.ErrLeavesKingInCheck):
		return "That move would leave your king in check."
	case errors.Is(err, game.ErrNotYourTurn):
		return "It is not your turn."
	case errors.Is(err, game.ErrGameOver):
		return "The game is over."
	}
	return err.Error()
}

func (c *Console) handleMove(cmd string) {
	if c.game.Controller(c.game.ToMove()) == game.Computer {
		c.printf("%s\n", reason(game.ErrNotYourTurn))
		return
	}
	ply, err := c.game.Play(cmd)
	if err != nil {
		c.printf("%s\n", reason(err))
		return
	}
	c.printf("%s plays %s.\n", ply.Color, ply.SAN)
	c.afterMove()
}

// handleSquare lists the legal destinations of the piece on a square.
func (c *Console) handleSquare(s string) {
	sq, err := board.ParseSquare(s)
	if err != nil {
		c.printf("%s\n", reason(err))
		return
	}
	pos := c.game.Position()
	pc := pos.PieceAt(sq)
	if pc.IsNone() {
		c.printf("%s\n", reason(board.ErrNoPieceAtSource))
		return
	}
	if pc.Color != c.game.ToMove() {
		c.printf("%s\n", reason(board.ErrNotOwner))
		return
	}

	dests := c.game.LegalMovesFrom(sq)
	if len(dests) == 0 {
		c.printf("The %s on %s has no legal moves.\n", pc.Type, sq)
		return
	}
	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = d.String()
	}
	c.printf("%s %s: %s\n", pc.Type, sq, strings.Join(names, " "))
}

func (c *Console) handleMoves() {
	pos := c.game.Position()
	moves := c.game.LegalMoves()
	san := make([]string, len(moves))
	for i, m := range moves {
		san[i] = m.ToSAN(pos)
	}
	c.printf("%d legal moves: %s\n", len(moves), strings.Join(san, " "))
}

// handleGo makes the engine move for the side to move; "go depth N" changes
// the search depth first.
func (c *Console) handleGo(ctx context.Context, args []string) error {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				if d, err := strconv.Atoi(args[i+1]); err == nil {
					c.game.Engine().SetDepth(d)
				}
				i++
			}
		}
	}
	err := c.engineMove(ctx)
	if errors.Is(err, game.ErrNoLegalMoves) || errors.Is(err, game.ErrGameOver) {
		c.printf("%s\n", reason(err))
		return nil
	}
	return err
}

func (c *Console) handleSave() {
	if c.manager == nil {
		c.printf("No archive configured.\n")
		return
	}
	if err := c.manager.Save(c.game); err != nil {
		c.printf("Save failed: %v\n", err)
		return
	}
	c.printf("Saved game %s.\n", c.game.ID)
}

func (c *Console) handleResign() {
	if err := c.game.Resign(c.game.ToMove()); err != nil {
		c.printf("%s\n", reason(err))
	}
}

func (c *Console) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			depth = d
		}
	}
	nodes := c.game.Engine().Perft(c.game.Position(), c.game.ToMove(), depth)
	c.printf("perft %d: %d\n", depth, nodes)
}

func (c *Console) handleHelp() {
	c.printf(`Commands:
  e2e4          move the piece on e2 to e4
  e2            list the moves of the piece on e2
  moves         list all legal moves
  d             show the board
  go [depth N]  let the engine move for the side to move
  save          archive the game
  resign        resign the game
  perft N       count move paths N half-moves deep
  quit          leave
`)
}
