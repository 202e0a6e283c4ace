package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
	"github.com/hailam/minichess/internal/render"
)

// Reason codes returned with rejected moves.
const (
	ReasonNoPiece     = "no_piece"
	ReasonNotOwner    = "not_owner"
	ReasonOwnPiece    = "own_piece"
	ReasonGeometry    = "unreachable"
	ReasonObstructed  = "obstructed"
	ReasonIntoCheck   = "into_check"
	ReasonMalformed   = "malformed"
	ReasonGameOver    = "game_over"
	ReasonNotYourTurn = "not_your_turn"
	ReasonNoMoves     = "no_legal_moves"
)

// Bounds on client-chosen workloads.
const (
	MaxDepth     = 8
	MaxImageSize = 2048
)

type gameController struct {
	server *Server
}

type createRequest struct {
	White    string `json:"white"`
	Black    string `json:"black"`
	Depth    int    `json:"depth"`
	Board    string `json:"board"`
	FEN      string `json:"fen"`
	Parallel bool   `json:"parallel"`
}

type moveRequest struct {
	Move string `json:"move"`
}

// reasonCode maps a move error to its reason code, or "" for internal errors.
func reasonCode(err error) string {
	switch {
	case errors.Is(err, board.ErrMalformedInput):
		return ReasonMalformed
	case errors.Is(err, board.ErrNoPieceAtSource):
		return ReasonNoPiece
	case errors.Is(err, board.ErrNotOwner):
		return ReasonNotOwner
	case errors.Is(err, board.ErrOwnPieceAtDestination):
		return ReasonOwnPiece
	case errors.Is(err, board.ErrGeometricallyInvalid):
		return ReasonGeometry
	case errors.Is(err, board.ErrPathObstructed):
		return ReasonObstructed
	case errors.Is(err, board.ErrLeavesKingInCheck):
		return ReasonIntoCheck
	case errors.Is(err, game.ErrGameOver):
		return ReasonGameOver
	case errors.Is(err, game.ErrNotYourTurn):
		return ReasonNotYourTurn
	case errors.Is(err, game.ErrNoLegalMoves):
		return ReasonNoMoves
	}
	return ""
}

// failure writes err with the matching status code.
func failure(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}
	if errors.Is(err, game.ErrGameNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if code := reasonCode(err); code != "" {
		status := fiber.StatusUnprocessableEntity
		if code == ReasonGameOver || code == ReasonNoMoves {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error":  err.Error(),
			"reason": code,
		})
	}
	log.Printf("request %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *gameController) lookup(c *fiber.Ctx) (*game.Game, error) {
	return gc.server.games.GetGame(c.Params("id"))
}

func (gc *gameController) CreateGame(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	opts := game.Options{
		White:    game.Human,
		Black:    game.Computer,
		Depth:    req.Depth,
		Parallel: req.Parallel,
		Setup:    req.Board,
		FEN:      req.FEN,
	}
	if opts.Depth < 0 || opts.Depth > MaxDepth {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("depth must be between 1 and %d", MaxDepth),
		})
	}
	if opts.Depth == 0 {
		opts.Depth = gc.server.cfg.Depth
	}
	for _, side := range []struct {
		value string
		dst   *game.Controller
	}{{req.White, &opts.White}, {req.Black, &opts.Black}} {
		if side.value == "" {
			continue
		}
		ctrl, ok := game.ParseController(side.value)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player must be human or computer",
			})
		}
		*side.dst = ctrl
	}

	g, err := gc.server.games.CreateGame(opts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	log.Printf("game %s created (%s vs %s, depth %d)", g.ID, opts.White, opts.Black, g.Engine().Depth())

	// A computer playing White opens right away.
	if err := gc.server.autoplay(c.UserContext(), g); err != nil {
		return failure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": g.ID,
		"state":   g.State(),
	})
}

func (gc *gameController) GetGameState(c *fiber.Ctx) error {
	g, err := gc.lookup(c)
	if err != nil {
		return failure(c, err)
	}
	return c.JSON(g.State())
}

func (gc *gameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.server.games.RemoveGame(c.Params("id")); err != nil {
		return failure(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *gameController) ListGames(c *fiber.Ctx) error {
	ids, err := gc.server.games.ListGames()
	if err != nil {
		return failure(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"games": ids})
}

// LegalMoves lists the destinations of the piece on ?from=, or every legal
// move of the side to move when from is omitted.
func (gc *gameController) LegalMoves(c *fiber.Ctx) error {
	g, err := gc.lookup(c)
	if err != nil {
		return failure(c, err)
	}

	from := c.Query("from")
	if from == "" {
		moves := g.LegalMoves()
		out := make([]string, len(moves))
		for i, m := range moves {
			out[i] = m.String()
		}
		return c.JSON(fiber.Map{"moves": out})
	}

	sq, err := board.ParseSquare(from)
	if err != nil {
		return failure(c, err)
	}
	dests := g.LegalMovesFrom(sq)
	out := make([]string, len(dests))
	for i, d := range dests {
		out[i] = d.String()
	}
	return c.JSON(fiber.Map{"from": sq.String(), "moves": out})
}

func (gc *gameController) MakeMove(c *fiber.Ctx) error {
	g, err := gc.lookup(c)
	if err != nil {
		return failure(c, err)
	}

	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "invalid request body",
			"reason": ReasonMalformed,
		})
	}

	if err := gc.server.play(c.UserContext(), g, req.Move); err != nil {
		return failure(c, err)
	}
	return c.JSON(g.State())
}

func (gc *gameController) EngineMove(c *fiber.Ctx) error {
	g, err := gc.lookup(c)
	if err != nil {
		return failure(c, err)
	}

	ply, res, err := g.EngineMove(c.UserContext())
	if err != nil {
		return failure(c, err)
	}
	gc.server.moved(g)
	return c.JSON(fiber.Map{
		"move":  ply.Move.String(),
		"san":   ply.SAN,
		"score": res.Score,
		"nodes": res.Nodes,
		"depth": res.Depth,
		"state": g.State(),
	})
}

func (gc *gameController) Resign(c *fiber.Ctx) error {
	g, err := gc.lookup(c)
	if err != nil {
		return failure(c, err)
	}
	if err := g.Resign(g.ToMove()); err != nil {
		return failure(c, err)
	}
	gc.server.moved(g)
	return c.JSON(g.State())
}

func (gc *gameController) snapshot(c *fiber.Ctx) (*board.Position, render.Options, error) {
	g, err := gc.lookup(c)
	if err != nil {
		return nil, render.Options{}, err
	}
	size := c.QueryInt("size", render.DefaultSize)
	if size < 1 || size > MaxImageSize {
		return nil, render.Options{}, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("size must be between 1 and %d", MaxImageSize))
	}
	opts := render.Options{
		Size:        size,
		Flip:        c.QueryBool("flip", false),
		LastMove:    board.NoMove,
		Coordinates: true,
	}
	if h := g.History(); len(h) > 0 {
		opts.LastMove = h[len(h)-1].Move
	}
	return g.Position(), opts, nil
}

func (gc *gameController) BoardImage(c *fiber.Ctx) error {
	pos, opts, err := gc.snapshot(c)
	if err != nil {
		return failure(c, err)
	}
	var buf bytes.Buffer
	if err := render.PNG(&buf, pos, opts); err != nil {
		return failure(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (gc *gameController) BoardSVG(c *fiber.Ctx) error {
	pos, opts, err := gc.snapshot(c)
	if err != nil {
		return failure(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(render.SVG(pos, opts))
}

// play makes a player move and lets a computer opponent reply.
func (s *Server) play(ctx context.Context, g *game.Game, cmd string) error {
	if g.Controller(g.ToMove()) == game.Computer {
		return game.ErrNotYourTurn
	}
	if _, err := g.Play(cmd); err != nil {
		return err
	}
	s.moved(g)
	return s.autoplay(ctx, g)
}

// autoplay lets the engine answer when a computer side is to move. Games
// between two computers only advance through explicit engine requests.
func (s *Server) autoplay(ctx context.Context, g *game.Game) error {
	if g.Controller(board.White) == game.Computer && g.Controller(board.Black) == game.Computer {
		return nil
	}
	if g.IsOver() || g.Controller(g.ToMove()) != game.Computer {
		return nil
	}
	_, _, err := g.EngineMove(ctx)
	if errors.Is(err, game.ErrNoLegalMoves) {
		return nil
	}
	if err != nil {
		return err
	}
	s.moved(g)
	return nil
}

// moved pushes the new state to subscribers and archives finished games.
func (s *Server) moved(g *game.Game) {
	s.hub.broadcast(g.ID, message{Type: messageState, Payload: g.State()})
	if !g.IsOver() {
		return
	}
	if err := s.games.Finish(g); err != nil {
		log.Printf("game %s: archive failed: %v", g.ID, err)
	}
}
