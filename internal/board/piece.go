package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Forward returns the row delta of a forward step for the color.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// ParseColor parses "white"/"black" (or "w"/"b").
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "White", "w":
		return White, true
	case "black", "Black", "b":
		return Black, true
	}
	return White, false
}

// PieceType represents the kind of a chess piece. The zero value is NoPieceType,
// so a zero Piece is an empty cell.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase symbol of the piece type.
func (pt PieceType) Char() byte {
	chars := []byte{'_', 'p', 'n', 'b', 'r', 'q', 'k'}
	if pt > King {
		return '_'
	}
	return chars[pt]
}

// PieceValue returns the material value of each piece type, indexed by PieceType.
var PieceValue = [7]int{0, 100, 300, 325, 400, 800, 50000}

// Piece is a piece of a given kind and color, plus whether it has moved yet.
// HasMoved gates the pawn double advance and castling.
type Piece struct {
	Type     PieceType
	Color    Color
	HasMoved bool
}

// NoPiece is the empty cell.
var NoPiece Piece

// NewPiece creates an unmoved piece.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece{Type: pt, Color: c}
}

// IsNone reports whether p is the empty cell.
func (p Piece) IsNone() bool {
	return p.Type == NoPieceType
}

// Symbol returns the display character: uppercase for White, lowercase for Black,
// '_' for an empty cell.
func (p Piece) Symbol() byte {
	if p.IsNone() {
		return '_'
	}
	ch := p.Type.Char()
	if p.Color == White {
		ch -= 'a' - 'A'
	}
	return ch
}

// String returns the display symbol of the piece.
func (p Piece) String() string {
	return string(p.Symbol())
}

// Value returns the material value of the piece.
func (p Piece) Value() int {
	return PieceValue[p.Type]
}

// PieceFromChar converts a setup character to a Piece. Any character other than
// "pnbrqkPNBRQK" is an empty cell.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return NewPiece(Pawn, White)
	case 'N':
		return NewPiece(Knight, White)
	case 'B':
		return NewPiece(Bishop, White)
	case 'R':
		return NewPiece(Rook, White)
	case 'Q':
		return NewPiece(Queen, White)
	case 'K':
		return NewPiece(King, White)
	case 'p':
		return NewPiece(Pawn, Black)
	case 'n':
		return NewPiece(Knight, Black)
	case 'b':
		return NewPiece(Bishop, Black)
	case 'r':
		return NewPiece(Rook, Black)
	case 'q':
		return NewPiece(Queen, Black)
	case 'k':
		return NewPiece(King, Black)
	default:
		return NoPiece
	}
}
