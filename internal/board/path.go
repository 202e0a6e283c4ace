package board

// PathClear reports whether pc has room to travel from->to, assuming the move is
// geometrically valid:
//   - sliders (rook, bishop, queen): every cell strictly between is empty
//   - knight: always clear
//   - pawn: forward targets (and the skipped cell of a double step) are empty,
//     a diagonal target is occupied
//   - king: single steps are clear; castling needs empty cells up to an unmoved
//     rook of the same color in the corner on that side
func (p *Position) PathClear(pc Piece, from, to Square) bool {
	switch pc.Type {
	case Knight:
		return true
	case Bishop, Rook, Queen:
		return p.lineClear(from, to)
	case Pawn:
		return p.pawnPathClear(from, to)
	case King:
		if IsCastle(pc, from, to) {
			return p.castlePathClear(pc, from, to)
		}
		return true
	}
	return false
}

// lineClear walks the open interval between two squares on a shared rank, file
// or diagonal and fails on the first occupied cell. Unaligned squares are never
// clear.
func (p *Position) lineClear(from, to Square) bool {
	dx, dy := to.X()-from.X(), to.Y()-from.Y()
	if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
		return false
	}
	stepX, stepY := sign(dx), sign(dy)
	for sq := from.Offset(stepX, stepY); sq != to; sq = sq.Offset(stepX, stepY) {
		if !sq.IsValid() {
			return false
		}
		if !p.IsEmpty(sq) {
			return false
		}
	}
	return true
}

func (p *Position) pawnPathClear(from, to Square) bool {
	if from.X() != to.X() {
		return !p.IsEmpty(to)
	}
	if !p.IsEmpty(to) {
		return false
	}
	dy := to.Y() - from.Y()
	if abs(dy) == 2 {
		return p.IsEmpty(from.Offset(0, sign(dy)))
	}
	return true
}

func (p *Position) castlePathClear(king Piece, from, to Square) bool {
	rookFrom, _ := castleRookSquares(from, to)
	rook := p.PieceAt(rookFrom)
	if rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}
	return p.lineClear(from, rookFrom)
}
