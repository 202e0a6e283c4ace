package board

import (
	"fmt"
	"strings"
)

// Position is an 8x8 grid of cells, each holding at most one piece.
// The zero value is an empty board. Position is a plain value: copying it
// (or calling Copy) yields an independent board.
type Position struct {
	cells [64]Piece
}

// NewPosition creates an empty board.
func NewPosition() *Position {
	return &Position{}
}

// StartPosition creates the standard starting position.
func StartPosition() *Position {
	pos, _ := ReadBoard(strings.NewReader(StartSetup))
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Restore overwrites the position with a previously taken snapshot.
func (p *Position) Restore(snapshot *Position) {
	*p = *snapshot
}

// PieceAt returns the piece at the given square, or NoPiece if empty or off-board.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.cells[sq]
}

// IsEmpty returns true if the square holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq).IsNone()
}

// Place puts a piece on an empty square. It is a no-op, returning false, if the
// square is already occupied or off-board.
func (p *Position) Place(sq Square, piece Piece) bool {
	if !sq.IsValid() || piece.IsNone() || !p.cells[sq].IsNone() {
		return false
	}
	p.cells[sq] = piece
	return true
}

// Capture removes and returns the occupant of the square (NoPiece if empty).
func (p *Position) Capture(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	piece := p.cells[sq]
	p.cells[sq] = NoPiece
	return piece
}

// OwnPiece returns true if the square is occupied by a piece of color c.
func (p *Position) OwnPiece(sq Square, c Color) bool {
	piece := p.PieceAt(sq)
	return !piece.IsNone() && piece.Color == c
}

// KingSquare finds the king of the given color by linear scan.
func (p *Position) KingSquare(c Color) (Square, bool) {
	for sq := A8; sq < NoSquare; sq++ {
		piece := p.cells[sq]
		if piece.Type == King && piece.Color == c {
			return sq, true
		}
	}
	return NoSquare, false
}

// mustKingSquare returns the king square of c. A missing king is a broken
// position invariant, so it panics rather than guessing.
func (p *Position) mustKingSquare(c Color) Square {
	sq, ok := p.KingSquare(c)
	if !ok {
		panic(fmt.Sprintf("board: no %s king on the board\n%s", c, p))
	}
	return sq
}

// Material returns the material balance (positive favors White), summed over
// every piece on the board including kings.
func (p *Position) Material() int {
	score := 0
	for _, piece := range p.cells {
		if piece.IsNone() {
			continue
		}
		if piece.Color == White {
			score += piece.Value()
		} else {
			score -= piece.Value()
		}
	}
	return score
}

// Count returns how many pieces of the given kind and color are on the board.
func (p *Position) Count(pt PieceType, c Color) int {
	n := 0
	for _, piece := range p.cells {
		if piece.Type == pt && piece.Color == c {
			n++
		}
	}
	return n
}

// Validate checks that each side has exactly one king.
func (p *Position) Validate() error {
	if n := p.Count(King, White); n != 1 {
		return fmt.Errorf("white must have exactly one king, found %d", n)
	}
	if n := p.Count(King, Black); n != 1 {
		return fmt.Errorf("black must have exactly one king, found %d", n)
	}
	return nil
}

// String renders the board with file letters as a header and rank numbers down
// the side. Empty cells are shown as '_'.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for y := 0; y < 8; y++ {
		fmt.Fprintf(&sb, "%d ", 8-y)
		for x := 0; x < 8; x++ {
			sb.WriteByte(p.cells[NewSquare(x, y)].Symbol())
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d\n", 8-y)
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
