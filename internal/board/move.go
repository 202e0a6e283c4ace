package board

import "fmt"

// Move is a from/to pair. It carries no state of its own: castling is
// recognized from the moving piece when the move is applied.
type Move struct {
	From Square
	To   Square
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// String returns the move as a command string (e.g., "e2e4").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// Reverse returns the move going the other way.
func (m Move) Reverse() Move {
	return Move{From: m.To, To: m.From}
}

// ParseMove parses a four character move command "<file><rank><file><rank>",
// files a-h and ranks 1-8. Anything else wraps ErrMalformedInput.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("%w: move %q must be 4 characters", ErrMalformedInput, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	return NewMove(from, to), nil
}

// Apply moves the piece on m.From to m.To and returns the captured piece
// (NoPiece if the destination was empty). The moved piece is marked as moved.
// A king moving two files also relocates the rook on that side.
//
// Apply does not check legality; callers validate first (see ValidateMove).
// It fails only when the source square is empty.
func (p *Position) Apply(m Move) (Piece, error) {
	if p.IsEmpty(m.From) {
		return NoPiece, fmt.Errorf("apply %s: %w", m, ErrNoPieceAtSource)
	}
	if !m.To.IsValid() || m.From == m.To {
		return NoPiece, fmt.Errorf("apply %s: %w", m, ErrGeometricallyInvalid)
	}

	captured := p.Capture(m.To)
	piece := p.Capture(m.From)
	castle := IsCastle(piece, m.From, m.To)
	piece.HasMoved = true
	p.Place(m.To, piece)

	if castle {
		rookFrom, rookTo := castleRookSquares(m.From, m.To)
		if rook := p.Capture(rookFrom); !rook.IsNone() {
			rook.HasMoved = true
			p.Place(rookTo, rook)
		}
	}

	return captured, nil
}
