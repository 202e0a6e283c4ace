// Package board implements the chess position model, per-piece movement rules,
// legality and check detection, and move application.
package board

import "fmt"

// Square represents a cell on the 8x8 board (0-63).
// Squares are numbered row-major from the top-left cell: A8=0, H8=7, A1=56, H1=63.
// X is the file (0=a, 7=h); Y is the row from the top (0 = rank 8, 7 = rank 1).
// White moves toward decreasing Y, Black toward increasing Y.
type Square uint8

// Square constants for all 64 squares, in row-major order from the top-left.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// OnBoard reports whether (x, y) lies on the board.
func OnBoard(x, y int) bool {
	return x >= 0 && x <= 7 && y >= 0 && y <= 7
}

// NewSquare creates a square from x (file) and y (row from the top).
// Off-board coordinates yield NoSquare.
func NewSquare(x, y int) Square {
	if !OnBoard(x, y) {
		return NoSquare
	}
	return Square(y*8 + x)
}

// X returns the file index of the square (0=a, 7=h).
func (sq Square) X() int {
	return int(sq) & 7
}

// Y returns the row index of the square, counted from the top (0 = rank 8).
func (sq Square) Y() int {
	return int(sq) >> 3
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset returns the square displaced by (dx, dy), or NoSquare if that falls off the board.
func (sq Square) Offset(dx, dy int) Square {
	if !sq.IsValid() {
		return NoSquare
	}
	return NewSquare(sq.X()+dx, sq.Y()+dy)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.X(), '8'-sq.Y())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: invalid square %q", ErrMalformedInput, s)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: invalid square %q", ErrMalformedInput, s)
	}
	return NewSquare(int(s[0]-'a'), int('8'-s[1])), nil
}

// HomeRow returns the back row of the given color (7 for White, 0 for Black).
func HomeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// PawnRow returns the row pawns of the given color start on.
func PawnRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}
