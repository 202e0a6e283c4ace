package board

// geometryFunc reports whether a piece could move from one square to another on
// an empty board. It only looks at coordinates, color and HasMoved.
type geometryFunc func(pc Piece, dx, dy int, from Square) bool

// geometry is the movement rule of each piece type, indexed by PieceType.
var geometry = [7]geometryFunc{
	NoPieceType: func(Piece, int, int, Square) bool { return false },
	Pawn:        pawnGeometry,
	Knight:      knightGeometry,
	Bishop:      bishopGeometry,
	Rook:        rookGeometry,
	Queen:       queenGeometry,
	King:        kingGeometry,
}

// IsGeometricallyValid reports whether from->to matches the movement pattern of
// pc. It is necessary but not sufficient for legality: occlusion, ownership and
// king safety are checked separately.
func IsGeometricallyValid(pc Piece, from, to Square) bool {
	if !from.IsValid() || !to.IsValid() || from == to || pc.Type > King {
		return false
	}
	return geometry[pc.Type](pc, to.X()-from.X(), to.Y()-from.Y(), from)
}

// pawnGeometry accepts exactly one of: a forward step, a double step from the
// starting row by an unmoved pawn, or a forward diagonal step.
func pawnGeometry(pc Piece, dx, dy int, from Square) bool {
	fwd := pc.Color.Forward()
	switch {
	case dx == 0 && dy == fwd:
		return true
	case dx == 0 && dy == 2*fwd:
		return !pc.HasMoved && from.Y() == PawnRow(pc.Color)
	case abs(dx) == 1 && dy == fwd:
		return true
	}
	return false
}

func knightGeometry(_ Piece, dx, dy int, _ Square) bool {
	adx, ady := abs(dx), abs(dy)
	return (adx == 2 && ady == 1) || (adx == 1 && ady == 2)
}

func bishopGeometry(_ Piece, dx, dy int, _ Square) bool {
	return dx != 0 && abs(dx) == abs(dy)
}

func rookGeometry(_ Piece, dx, dy int, _ Square) bool {
	return (dx == 0) != (dy == 0)
}

func queenGeometry(pc Piece, dx, dy int, from Square) bool {
	return bishopGeometry(pc, dx, dy, from) || rookGeometry(pc, dx, dy, from)
}

// kingGeometry accepts a single step in any direction, or the castling pattern
// (two files sideways on the same row) for a king that has not moved.
func kingGeometry(pc Piece, dx, dy int, _ Square) bool {
	if abs(dx) <= 1 && abs(dy) <= 1 {
		return true
	}
	return !pc.HasMoved && dy == 0 && abs(dx) == 2
}

// IsCastle reports whether moving pc from->to is a castling move.
func IsCastle(pc Piece, from, to Square) bool {
	return pc.Type == King && from.Y() == to.Y() && abs(to.X()-from.X()) == 2
}

// castleRookSquares returns where the rook for a king move from->to starts
// and where it ends up.
func castleRookSquares(from, to Square) (rookFrom, rookTo Square) {
	step := sign(to.X() - from.X())
	if step > 0 {
		rookFrom = NewSquare(7, from.Y())
	} else {
		rookFrom = NewSquare(0, from.Y())
	}
	return rookFrom, to.Offset(-step, 0)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
