// Package server exposes games over a fiber REST API and a websocket channel.
package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/hailam/minichess/internal/game"
)

// Config configures the HTTP server.
type Config struct {
	// AllowOrigins is the CORS origin list ("*" when empty).
	AllowOrigins string
	// Depth is the engine depth for games created without one.
	Depth int
}

// Server routes HTTP and websocket traffic to a game manager.
type Server struct {
	app   *fiber.App
	games *game.Manager
	hub   *hub
	cfg   Config
}

// New builds the fiber app and registers all routes.
func New(gm *game.Manager, cfg Config) *Server {
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}

	s := &Server{
		app:   fiber.New(fiber.Config{DisableStartupMessage: true}),
		games: gm,
		hub:   newHub(),
		cfg:   cfg,
	}

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	gc := &gameController{server: s}

	api := s.app.Group("/api")
	api.Get("/games", gc.ListGames)

	games := api.Group("/game")
	games.Post("/", gc.CreateGame)
	games.Get("/:id", gc.GetGameState)
	games.Delete("/:id", gc.DeleteGame)
	games.Get("/:id/moves", gc.LegalMoves)
	games.Post("/:id/move", gc.MakeMove)
	games.Post("/:id/engine", gc.EngineMove)
	games.Post("/:id/resign", gc.Resign)
	games.Get("/:id/board.png", gc.BoardImage)
	games.Get("/:id/board.svg", gc.BoardSVG)

	s.app.Use("/ws", requireUpgrade)
	s.app.Get("/ws/game/:id", websocket.New(s.handleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	log.Printf("listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
