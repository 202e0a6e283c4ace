package board

// Attacks reports whether pc standing on from attacks the target square.
// Pawns attack only their two forward diagonals (occupied or not) and kings only
// adjacent squares; every other piece attacks what it could legally reach with a
// clear path. Whose turn it is does not matter.
func (p *Position) Attacks(pc Piece, from, target Square) bool {
	if from == target || !from.IsValid() || !target.IsValid() {
		return false
	}
	dx, dy := target.X()-from.X(), target.Y()-from.Y()
	switch pc.Type {
	case Pawn:
		return abs(dx) == 1 && dy == pc.Color.Forward()
	case King:
		return abs(dx) <= 1 && abs(dy) <= 1
	case Knight:
		return knightGeometry(pc, dx, dy, from)
	case Bishop, Rook, Queen:
		return geometry[pc.Type](pc, dx, dy, from) && p.lineClear(from, target)
	}
	return false
}

// IsSquareAttacked returns true if any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	for from := A8; from < NoSquare; from++ {
		pc := p.cells[from]
		if pc.IsNone() || pc.Color != by {
			continue
		}
		if p.Attacks(pc, from, sq) {
			return true
		}
	}
	return false
}

// Attackers returns the squares of all pieces of color by attacking sq.
func (p *Position) Attackers(sq Square, by Color) []Square {
	var out []Square
	for from := A8; from < NoSquare; from++ {
		pc := p.cells[from]
		if !pc.IsNone() && pc.Color == by && p.Attacks(pc, from, sq) {
			out = append(out, from)
		}
	}
	return out
}

// InCheck returns true if the king of color c is attacked. It panics if that
// king is not on the board.
func (p *Position) InCheck(c Color) bool {
	return p.IsSquareAttacked(p.mustKingSquare(c), c.Other())
}
