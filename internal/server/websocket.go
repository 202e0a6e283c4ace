package server

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/hailam/minichess/internal/game"
)

type messageType string

const (
	messageState messageType = "state"
	messageError messageType = "error"
)

// message is the JSON envelope written to websocket clients.
type message struct {
	Type    messageType `json:"type"`
	Payload any         `json:"payload"`
}

type errorPayload struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// hub tracks the connections watching each game.
type hub struct {
	mu    sync.RWMutex
	games map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{games: make(map[string]map[*client]struct{})}
}

func (h *hub) register(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[id] == nil {
		h.games[id] = make(map[*client]struct{})
	}
	h.games[id][c] = struct{}{}
}

func (h *hub) unregister(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.games[id], c)
	if len(h.games[id]) == 0 {
		delete(h.games, id)
	}
}

func (h *hub) broadcast(id string, msg message) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.games[id]))
	for c := range h.games[id] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			log.Printf("game %s: write failed: %v", id, err)
		}
	}
}

// handleConnection streams a game to a websocket client. Text frames carry a
// move command, "engine" or "resign"; every change is broadcast as state.
func (s *Server) handleConnection(conn *websocket.Conn) {
	id := conn.Params("id")
	c := &client{conn: conn}

	g, err := s.games.GetGame(id)
	if err != nil {
		_ = c.send(errorMessage(err))
		conn.Close()
		return
	}

	s.hub.register(id, c)
	defer s.hub.unregister(id, c)

	if err := c.send(message{Type: messageState, Payload: g.State()}); err != nil {
		return
	}

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("game %s: read error: %v", id, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if err := s.command(context.Background(), g, strings.TrimSpace(string(data))); err != nil {
			if err := c.send(errorMessage(err)); err != nil {
				return
			}
		}
	}
}

func (s *Server) command(ctx context.Context, g *game.Game, cmd string) error {
	switch cmd {
	case "engine", "go":
		if _, _, err := g.EngineMove(ctx); err != nil {
			return err
		}
		s.moved(g)
		return nil
	case "resign":
		if err := g.Resign(g.ToMove()); err != nil {
			return err
		}
		s.moved(g)
		return nil
	}
	return s.play(ctx, g, cmd)
}

func errorMessage(err error) message {
	return message{
		Type:    messageError,
		Payload: errorPayload{Error: err.Error(), Reason: reasonCode(err)},
	}
}
