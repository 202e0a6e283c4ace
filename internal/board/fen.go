package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// castleCorner is a castling right: the king and rook home squares it needs.
type castleCorner struct {
	symbol byte
	color  Color
	king   Square
	rook   Square
}

var castleCorners = []castleCorner{
	{'K', White, E1, H1},
	{'Q', White, E1, A1},
	{'k', Black, E8, H8},
	{'q', Black, E8, A8},
}

// ParseFEN parses the placement, side to move and castling fields of a FEN
// string. Kings and rooks without a castling right are marked as moved, as are
// pawns off their starting row. The en passant field and the clocks are read
// but not kept.
func ParseFEN(fen string) (*Position, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, White, fmt.Errorf("%w: FEN needs at least 4 fields, got %d", ErrMalformedInput, len(parts))
	}

	pos := NewPosition()
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, White, err
	}

	var side Color
	switch parts[1] {
	case "w":
		side = White
	case "b":
		side = Black
	default:
		return nil, White, fmt.Errorf("%w: invalid side to move %q", ErrMalformedInput, parts[1])
	}

	if err := applyCastlingRights(pos, parts[2]); err != nil {
		return nil, White, err
	}

	if parts[3] != "-" {
		if _, err := ParseSquare(parts[3]); err != nil {
			return nil, White, fmt.Errorf("invalid en passant square: %w", err)
		}
	}
	for _, f := range parts[4:min(len(parts), 6)] {
		if _, err := strconv.Atoi(f); err != nil {
			return nil, White, fmt.Errorf("%w: invalid move counter %q", ErrMalformedInput, f)
		}
	}

	return pos, side, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrMalformedInput, len(ranks))
	}

	// FEN lists rank 8 first, which is row 0 here.
	for y, rankStr := range ranks {
		x := 0
		for _, c := range rankStr {
			if x > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrMalformedInput, 8-y)
			}
			if c >= '1' && c <= '8' {
				x += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece.IsNone() {
				return fmt.Errorf("%w: invalid piece character %q", ErrMalformedInput, c)
			}
			if piece.Type == Pawn && y != PawnRow(piece.Color) {
				piece.HasMoved = true
			}
			pos.Place(NewSquare(x, y), piece)
			x++
		}
		if x != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrMalformedInput, 8-y, x)
		}
	}
	return nil
}

// applyCastlingRights marks every king and rook that lacks a right as moved.
func applyCastlingRights(pos *Position, castling string) error {
	rights := make(map[byte]bool)
	if castling != "-" {
		for i := 0; i < len(castling); i++ {
			c := castling[i]
			if !strings.ContainsRune("KQkq", rune(c)) {
				return fmt.Errorf("%w: invalid castling character %q", ErrMalformedInput, c)
			}
			rights[c] = true
		}
	}

	kingRight := [2]bool{}
	for _, cc := range castleCorners {
		if rights[cc.symbol] && unmovedAt(pos, cc.king, King, cc.color) && unmovedAt(pos, cc.rook, Rook, cc.color) {
			kingRight[cc.color] = true
			continue
		}
		markMoved(pos, cc.rook, Rook, cc.color)
	}
	for sq := A8; sq <= H1; sq++ {
		pc := pos.PieceAt(sq)
		if pc.Type == King && !kingRight[pc.Color] {
			markMoved(pos, sq, King, pc.Color)
		}
		// Rooks away from the corners can never castle.
		if pc.Type == Rook && sq != A1 && sq != H1 && sq != A8 && sq != H8 {
			markMoved(pos, sq, Rook, pc.Color)
		}
	}
	return nil
}

func unmovedAt(pos *Position, sq Square, pt PieceType, c Color) bool {
	pc := pos.PieceAt(sq)
	return pc.Type == pt && pc.Color == c && !pc.HasMoved
}

func markMoved(pos *Position, sq Square, pt PieceType, c Color) {
	pc := pos.PieceAt(sq)
	if pc.Type == pt && pc.Color == c {
		pc.HasMoved = true
		pos.Capture(sq)
		pos.Place(sq, pc)
	}
}

// CastlingRights returns the FEN castling field implied by the unmoved kings
// and rooks on their home squares.
func (p *Position) CastlingRights() string {
	var sb strings.Builder
	for _, cc := range castleCorners {
		if unmovedAt(p, cc.king, King, cc.color) && unmovedAt(p, cc.rook, Rook, cc.color) {
			sb.WriteByte(cc.symbol)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// FEN returns the FEN representation of the position with side to move. En
// passant is never available and the clocks are reported as "0 1".
func (p *Position) FEN(side Color) string {
	var sb strings.Builder

	for y := 0; y < 8; y++ {
		empty := 0
		for x := 0; x < 8; x++ {
			piece := p.PieceAt(NewSquare(x, y))
			if piece.IsNone() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights())
	sb.WriteString(" - 0 1")

	return sb.String()
}
