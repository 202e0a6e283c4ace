package board

import "errors"

// Reasons a move can be rejected. All of them are recoverable.
var (
	ErrNoPieceAtSource       = errors.New("no piece at source square")
	ErrNotOwner              = errors.New("piece belongs to the other side")
	ErrGeometricallyInvalid  = errors.New("destination unreachable by this piece")
	ErrPathObstructed        = errors.New("path obstructed")
	ErrOwnPieceAtDestination = errors.New("own piece at destination")
	ErrLeavesKingInCheck     = errors.New("move leaves king in check")
	ErrMalformedInput        = errors.New("malformed input")
)
