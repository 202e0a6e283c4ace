package server

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/hailam/minichess/internal/game"
	"github.com/hailam/minichess/internal/storage"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return New(game.NewManager(store), Config{Depth: 2})
}

func do(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func createGame(t *testing.T, s *Server, body string) string {
	t.Helper()
	resp, data := do(t, s, http.MethodPost, "/api/game", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d: %s", resp.StatusCode, data)
	}
	var out struct {
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.GameID == "" {
		t.Fatalf("create: no game id in %s", data)
	}
	return out.GameID
}

func decodeState(t *testing.T, data []byte) game.State {
	t.Helper()
	var st game.State
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode state: %v: %s", err, data)
	}
	return st
}

func TestCreateAndGetGame(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"white":"human","black":"human"}`)

	resp, data := do(t, s, http.MethodGet, "/api/game/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	st := decodeState(t, data)
	if st.ID != id || st.ToMove != "white" || st.Status != "active" || len(st.Rows) != 8 {
		t.Errorf("unexpected state %+v", st)
	}
	if st.Rows[0] != "rnbqkbnr" || st.Rows[7] != "RNBQKBNR" {
		t.Errorf("rows = %v", st.Rows)
	}
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	s := newServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad controller", `{"white":"robot"}`},
		{"missing king", `{"board":"________________________________________________________________"}`},
		{"bad json", `{"white":`},
		{"bad fen", `{"fen":"rnbqkbnr w"}`},
		{"depth too large", `{"depth":40}`},
		{"negative depth", `{"depth":-1}`},
		{"opponent already in check", `{"white":"human","black":"human","board":"____k___` + strings.Repeat("________", 6) + `____RK__"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, data := do(t, s, http.MethodPost, "/api/game", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status %d, want 400: %s", resp.StatusCode, data)
			}
		})
	}
}

func TestGameNotFound(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/api/game/missing", "/api/game/missing/moves", "/api/game/missing/board.png"} {
		resp, _ := do(t, s, http.MethodGet, path, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestLegalMoves(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"black":"human"}`)

	resp, data := do(t, s, http.MethodGet, "/api/game/"+id+"/moves?from=b1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	var out struct {
		From  string   `json:"from"`
		Moves []string `json:"moves"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.From != "b1" || strings.Join(out.Moves, ",") != "a3,c3" {
		t.Errorf("moves from b1 = %+v", out)
	}

	_, data = do(t, s, http.MethodGet, "/api/game/"+id+"/moves", "")
	out.Moves = nil
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Moves) != 20 {
		t.Errorf("got %d moves from the start, want 20", len(out.Moves))
	}

	resp, _ = do(t, s, http.MethodGet, "/api/game/"+id+"/moves?from=z9", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad square: status %d, want 422", resp.StatusCode)
	}
}

func TestMoveRejections(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"white":"human","black":"human"}`)

	tests := []struct {
		move   string
		reason string
	}{
		{"e3e4", ReasonNoPiece},
		{"e7e5", ReasonNotOwner},
		{"a1a2", ReasonOwnPiece},
		{"b1b3", ReasonGeometry},
		{"a1a3", ReasonObstructed},
		{"e2e", ReasonMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			resp, data := do(t, s, http.MethodPost, "/api/game/"+id+"/move", `{"move":"`+tc.move+`"}`)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status %d, want 422: %s", resp.StatusCode, data)
			}
			var out struct {
				Reason string `json:"reason"`
			}
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatal(err)
			}
			if out.Reason != tc.reason {
				t.Errorf("reason = %q, want %q", out.Reason, tc.reason)
			}
		})
	}
}

func TestIntoCheckReason(t *testing.T) {
	s := newServer(t)
	setup := "____k___" + "____r___" + strings.Repeat("________", 4) + "____B___" + "____K___"
	id := createGame(t, s, `{"white":"human","black":"human","board":"`+setup+`"}`)

	resp, data := do(t, s, http.MethodPost, "/api/game/"+id+"/move", `{"move":"e2d3"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(string(data), ReasonIntoCheck) {
		t.Errorf("status %d body %s, want into_check", resp.StatusCode, data)
	}
}

func TestMoveAndComputerReply(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"white":"human","black":"computer","depth":1}`)

	resp, data := do(t, s, http.MethodPost, "/api/game/"+id+"/move", `{"move":"e2e4"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	st := decodeState(t, data)
	if len(st.Moves) != 2 || st.Moves[0] != "e2e4" || st.ToMove != "white" {
		t.Errorf("unexpected state after reply: %+v", st)
	}
	if st.LastMove == nil || *st.LastMove != st.Moves[1] {
		t.Errorf("last move = %v", st.LastMove)
	}
}

func TestComputerOpensAsWhite(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"white":"computer","black":"human","depth":1}`)

	_, data := do(t, s, http.MethodGet, "/api/game/"+id, "")
	st := decodeState(t, data)
	if len(st.Moves) != 1 || st.ToMove != "black" {
		t.Errorf("computer did not open: %+v", st)
	}
}

func TestEngineMoveFinishesGame(t *testing.T) {
	s := newServer(t)
	setup := "______k_" + "_____ppp" + strings.Repeat("________", 5) + "R______K"
	id := createGame(t, s, `{"white":"human","black":"human","depth":2,"board":"`+setup+`"}`)

	resp, data := do(t, s, http.MethodPost, "/api/game/"+id+"/engine", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	var out struct {
		Move  string     `json:"move"`
		SAN   string     `json:"san"`
		State game.State `json:"state"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Move != "a1a8" || out.SAN != "Ra8#" {
		t.Errorf("engine played %s (%s), want a1a8 (Ra8#)", out.Move, out.SAN)
	}
	if out.State.Status != "white_wins" || out.State.Winner == nil || *out.State.Winner != "white" {
		t.Errorf("unexpected final state %+v", out.State)
	}

	resp, data = do(t, s, http.MethodPost, "/api/game/"+id+"/move", `{"move":"g8h8"}`)
	if resp.StatusCode != http.StatusConflict || !strings.Contains(string(data), ReasonGameOver) {
		t.Errorf("move after mate: status %d body %s", resp.StatusCode, data)
	}
}

func TestResignAndList(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"white":"human","black":"human"}`)

	resp, data := do(t, s, http.MethodPost, "/api/game/"+id+"/resign", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	if st := decodeState(t, data); st.Status != "resigned" || *st.Winner != "black" {
		t.Errorf("unexpected state %+v", st)
	}

	_, data = do(t, s, http.MethodGet, "/api/games", "")
	if !strings.Contains(string(data), id) {
		t.Errorf("game list %s does not contain %s", data, id)
	}

	resp, _ = do(t, s, http.MethodDelete, "/api/game/"+id, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: status %d", resp.StatusCode)
	}
	resp, _ = do(t, s, http.MethodGet, "/api/game/"+id, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("after delete: status %d, want 404", resp.StatusCode)
	}
}

func TestBoardSnapshots(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"white":"human","black":"human"}`)

	resp, data := do(t, s, http.MethodGet, "/api/game/"+id+"/board.png?size=240", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("status %d type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	img, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 240 {
		t.Errorf("image size %v, want 240x240", b)
	}

	resp, data = do(t, s, http.MethodGet, "/api/game/"+id+"/board.svg", "")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("svg: status %d body %.40s", resp.StatusCode, data)
	}
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	s := newServer(t)
	resp, _ := do(t, s, http.MethodGet, "/ws/game/anything", "")
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("status %d, want 426", resp.StatusCode)
	}
}

func TestSocketCommands(t *testing.T) {
	s := newServer(t)
	g, err := s.games.CreateGame(game.Options{White: game.Human, Black: game.Human, Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.command(ctx, g, "e7e5"); reasonCode(err) != ReasonNotOwner {
		t.Errorf("e7e5: %v, want not_owner", err)
	}
	if err := s.command(ctx, g, "e2e4"); err != nil {
		t.Fatal(err)
	}
	if err := s.command(ctx, g, "engine"); err != nil {
		t.Fatal(err)
	}
	if err := s.command(ctx, g, "resign"); err != nil {
		t.Fatal(err)
	}
	if err := s.command(ctx, g, "d2d4"); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("move after resign: %v, want ErrGameOver", err)
	}
	if n := len(g.History()); n != 2 {
		t.Errorf("history has %d plies, want 2", n)
	}
}

func TestErrorMessage(t *testing.T) {
	msg := errorMessage(game.ErrNotYourTurn)
	p, ok := msg.Payload.(errorPayload)
	if msg.Type != messageError || !ok || p.Reason != ReasonNotYourTurn {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestCreateFromFEN(t *testing.T) {
	s := newServer(t)
	fen := "4k3/8/8/8/8/8/4P3/4K3 b - - 0 1"
	id := createGame(t, s, `{"white":"human","black":"human","fen":"`+fen+`"}`)

	_, data := do(t, s, http.MethodGet, "/api/game/"+id, "")
	st := decodeState(t, data)
	if st.FEN != fen || st.ToMove != "black" {
		t.Errorf("state = %+v", st)
	}
}

func TestBoardSizeBounds(t *testing.T) {
	s := newServer(t)
	id := createGame(t, s, `{"white":"human","black":"human"}`)

	for _, size := range []string{"0", "-5", "2049", "100000"} {
		for _, ext := range []string{"png", "svg"} {
			resp, data := do(t, s, http.MethodGet, "/api/game/"+id+"/board."+ext+"?size="+size, "")
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("board.%s size=%s: status %d, want 400: %s", ext, size, resp.StatusCode, data)
			}
		}
	}

	resp, _ := do(t, s, http.MethodGet, "/api/game/"+id+"/board.png?size=64", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("size=64: status %d, want 200", resp.StatusCode)
	}
}

func TestPanicRecovered(t *testing.T) {
	s := newServer(t)
	s.App().Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, _ := do(t, s, http.MethodGet, "/boom", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", resp.StatusCode)
	}
	resp, _ = do(t, s, http.MethodGet, "/api/games", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("server unusable after a panic: status %d", resp.StatusCode)
	}
}
