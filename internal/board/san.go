package board

import (
	"strings"
)

// ToSAN converts a legal move of the piece on m.From to Standard Algebraic
// Notation, including the check (+) and checkmate (#) markers.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	piece := pos.PieceAt(m.From)
	if piece.IsNone() {
		return m.String()
	}

	var sb strings.Builder

	if IsCastle(piece, m.From, m.To) {
		if m.To.X() > m.From.X() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if piece.Type != Pawn {
			sb.WriteByte(piece.Type.Char() - ('a' - 'A'))
			sb.WriteString(disambiguation(pos, m, piece))
		}
		if !pos.IsEmpty(m.To) {
			if piece.Type == Pawn {
				sb.WriteByte('a' + byte(m.From.X()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
	}

	after := pos.Copy()
	if _, err := after.Apply(m); err != nil {
		return sb.String()
	}
	them := piece.Color.Other()
	if _, ok := after.KingSquare(them); ok && after.InCheck(them) {
		if after.HasLegalMoves(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same kind could also reach m.To.
func disambiguation(pos *Position, m Move, piece Piece) string {
	var candidates []Square
	for from := A8; from < NoSquare; from++ {
		if from == m.From {
			continue
		}
		other := pos.PieceAt(from)
		if other.Type != piece.Type || other.Color != piece.Color {
			continue
		}
		if pos.IsLegal(piece.Color, NewMove(from, m.To)) {
			candidates = append(candidates, from)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.X() == m.From.X() {
			sameFile = true
		}
		if sq.Y() == m.From.Y() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + m.From.X()))
	}
	if !sameRank {
		return string(rune('8' - m.From.Y()))
	}
	return m.From.String()
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		if _, err := p.Apply(m); err != nil {
			return result[:i+1]
		}
	}

	return result
}
