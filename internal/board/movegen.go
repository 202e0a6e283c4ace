package board

import "fmt"

// ValidateMove checks whether color c may play m, returning nil or the first
// reason it fails, in this order: ErrNoPieceAtSource, ErrNotOwner,
// ErrOwnPieceAtDestination, ErrGeometricallyInvalid, ErrPathObstructed,
// ErrLeavesKingInCheck.
func (p *Position) ValidateMove(c Color, m Move) error {
	if err := p.validatePseudoLegal(c, m); err != nil {
		return err
	}
	if p.exposesKing(c, m) {
		return fmt.Errorf("%s: %w", m, ErrLeavesKingInCheck)
	}
	return nil
}

// IsPseudoLegal reports whether m satisfies geometry, occlusion and ownership
// for color c, without looking at king safety.
func (p *Position) IsPseudoLegal(c Color, m Move) bool {
	return p.validatePseudoLegal(c, m) == nil
}

func (p *Position) validatePseudoLegal(c Color, m Move) error {
	pc := p.PieceAt(m.From)
	switch {
	case pc.IsNone():
		return fmt.Errorf("%s: %w", m, ErrNoPieceAtSource)
	case pc.Color != c:
		return fmt.Errorf("%s: %w", m, ErrNotOwner)
	case p.OwnPiece(m.To, c):
		return fmt.Errorf("%s: %w", m, ErrOwnPieceAtDestination)
	case !IsGeometricallyValid(pc, m.From, m.To):
		return fmt.Errorf("%s: %w", m, ErrGeometricallyInvalid)
	case !p.PathClear(pc, m.From, m.To):
		return fmt.Errorf("%s: %w", m, ErrPathObstructed)
	}
	return nil
}

// exposesKing reports whether playing m leaves c's king attacked. Castling is
// also refused out of check and across an attacked square.
func (p *Position) exposesKing(c Color, m Move) bool {
	if IsCastle(p.PieceAt(m.From), m.From, m.To) {
		them := c.Other()
		crossed := m.From.Offset(sign(m.To.X()-m.From.X()), 0)
		if p.IsSquareAttacked(m.From, them) || p.IsSquareAttacked(crossed, them) {
			return true
		}
	}

	scratch := p.Copy()
	if _, err := scratch.Apply(m); err != nil {
		return true
	}
	return scratch.InCheck(c)
}

// IsLegal reports whether color c may play m.
func (p *Position) IsLegal(c Color, m Move) bool {
	return p.ValidateMove(c, m) == nil
}

// LegalMoves returns the legal destinations of the piece of color c on from,
// in row-major order.
func (p *Position) LegalMoves(c Color, from Square) []Square {
	if !p.OwnPiece(from, c) {
		return nil
	}
	var out []Square
	for to := A8; to < NoSquare; to++ {
		m := NewMove(from, to)
		if p.validatePseudoLegal(c, m) != nil {
			continue
		}
		if p.exposesKing(c, m) {
			continue
		}
		out = append(out, to)
	}
	return out
}

// GenerateLegalMoves returns every legal move of color c, sources and
// destinations both in row-major order.
func (p *Position) GenerateLegalMoves(c Color) []Move {
	var moves []Move
	for from := A8; from < NoSquare; from++ {
		for _, to := range p.LegalMoves(c, from) {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

// HasLegalMoves returns true if color c has at least one legal move.
func (p *Position) HasLegalMoves(c Color) bool {
	for from := A8; from < NoSquare; from++ {
		if !p.OwnPiece(from, c) {
			continue
		}
		for to := A8; to < NoSquare; to++ {
			if p.IsLegal(c, NewMove(from, to)) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate returns true if color c is in check and has no legal move.
func (p *Position) IsCheckmate(c Color) bool {
	return p.InCheck(c) && !p.HasLegalMoves(c)
}
