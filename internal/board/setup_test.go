package board

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStartPosition(t *testing.T) {
	pos := StartPosition()

	if err := pos.Validate(); err != nil {
		t.Fatal(err)
	}
	if pos.Material() != 0 {
		t.Errorf("Material() = %d, want 0", pos.Material())
	}
	checks := map[Square]Piece{
		E1: NewPiece(King, White),
		D8: NewPiece(Queen, Black),
		A1: NewPiece(Rook, White),
		G8: NewPiece(Knight, Black),
		C2: NewPiece(Pawn, White),
	}
	for sq, want := range checks {
		if got := pos.PieceAt(sq); got != want {
			t.Errorf("%s holds %+v, want %+v", sq, got, want)
		}
	}
	for y := 2; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if !pos.IsEmpty(NewSquare(x, y)) {
				t.Errorf("%s should be empty", NewSquare(x, y))
			}
		}
	}
}

func TestReadBoardLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(*testing.T, *Position)
	}{
		{"short input", "rnbqkbnr\npp", func(t *testing.T, p *Position) {
			if p.PieceAt(B7).Type != Pawn || !p.IsEmpty(C7) || !p.IsEmpty(E1) {
				t.Errorf("unexpected board:\n%s", p)
			}
		}},
		{"unknown characters are empty", "k.x?K", func(t *testing.T, p *Position) {
			if p.PieceAt(A8).Type != King || p.PieceAt(E8) != NewPiece(King, White) {
				t.Errorf("unexpected board:\n%s", p)
			}
			if !p.IsEmpty(B8) || !p.IsEmpty(C8) || !p.IsEmpty(D8) {
				t.Errorf("unknown characters should be empty cells:\n%s", p)
			}
		}},
		{"crlf line endings", strings.ReplaceAll(StartSetup, "\n", "\r\n"), func(t *testing.T, p *Position) {
			if *p != *StartPosition() {
				t.Errorf("CRLF setup differs from start:\n%s", p)
			}
		}},
		{"extra characters ignored", StartSetup + "QQQQ", func(t *testing.T, p *Position) {
			if p.Count(Queen, White) != 1 {
				t.Errorf("trailing input placed pieces:\n%s", p)
			}
		}},
		{"empty input", "", func(t *testing.T, p *Position) {
			if *p != *NewPosition() {
				t.Errorf("expected empty board:\n%s", p)
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseBoard(tc.input)
			if err != nil {
				t.Fatalf("ParseBoard: %v", err)
			}
			tc.check(t, pos)
		})
	}
}

func TestSetupStringRoundTrip(t *testing.T) {
	pos := StartPosition()
	if got := pos.SetupString(); got != StartSetup {
		t.Errorf("SetupString() =\n%s\nwant\n%s", got, StartSetup)
	}

	if _, err := pos.Apply(NewMove(E2, E4)); err != nil {
		t.Fatal(err)
	}
	again, err := ParseBoard(pos.SetupString())
	if err != nil {
		t.Fatal(err)
	}
	if again.SetupString() != pos.SetupString() {
		t.Error("setup grid did not survive a round trip")
	}
}

func TestLoadBoardFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.txt")
	if err := os.WriteFile(path, []byte(StartSetup), 0o644); err != nil {
		t.Fatal(err)
	}
	pos, err := LoadBoardFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *pos != *StartPosition() {
		t.Errorf("loaded board differs from start:\n%s", pos)
	}

	if _, err := LoadBoardFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPositionString(t *testing.T) {
	s := StartPosition().String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10:\n%s", len(lines), s)
	}
	if lines[0] != "  a b c d e f g h" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "8 r n b q k b n r 8" {
		t.Errorf("rank 8 = %q", lines[1])
	}
	if lines[5] != "4 _ _ _ _ _ _ _ _ 4" {
		t.Errorf("rank 4 = %q", lines[5])
	}
}

func TestSquares(t *testing.T) {
	if A8 != 0 || H1 != 63 {
		t.Fatalf("A8=%d H1=%d", A8, H1)
	}
	sq, err := ParseSquare("e4")
	if err != nil || sq != E4 || sq.String() != "e4" {
		t.Errorf("ParseSquare(e4) = %v, %v", sq, err)
	}
	if E4.X() != 4 || E4.Y() != 4 {
		t.Errorf("E4 = (%d,%d)", E4.X(), E4.Y())
	}
	if E2.Offset(0, White.Forward()) != E3 {
		t.Error("white moves toward rank 8")
	}
	if H4.Offset(1, 0) != NoSquare {
		t.Error("offset off the board should give NoSquare")
	}
	if NewSquare(-1, 3) != NoSquare {
		t.Error("NewSquare off board should give NoSquare")
	}
}

func TestPlaceAndCapture(t *testing.T) {
	pos := NewPosition()
	if !pos.Place(D4, NewPiece(Queen, White)) {
		t.Fatal("Place on empty square failed")
	}
	if pos.Place(D4, NewPiece(Rook, Black)) {
		t.Error("Place on occupied square should be refused")
	}
	if pos.PieceAt(D4).Type != Queen {
		t.Error("refused Place overwrote the occupant")
	}
	if pos.Place(NoSquare, NewPiece(Rook, Black)) {
		t.Error("Place off board should be refused")
	}
	if got := pos.Capture(D4); got.Type != Queen {
		t.Errorf("Capture returned %v", got)
	}
	if !pos.IsEmpty(D4) || !pos.Capture(D4).IsNone() {
		t.Error("square should be empty after Capture")
	}
}

func TestValidateKings(t *testing.T) {
	pos := NewPosition()
	pos.Place(E1, NewPiece(King, White))
	if err := pos.Validate(); err == nil {
		t.Error("missing black king should fail validation")
	}
	pos.Place(E8, NewPiece(King, Black))
	if err := pos.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	pos.Place(A8, NewPiece(King, Black))
	if err := pos.Validate(); err == nil {
		t.Error("two black kings should fail validation")
	}
}
