package board

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// StartSetup is the setup grid for the standard starting position.
const StartSetup = `rnbqkbnr
pppppppp
________
________
________
________
PPPPPPPP
RNBQKBNR
`

// ReadBoard reads a setup grid: 64 meaningful characters in row-major order from
// the top-left cell, newlines ignored. "rnbqkp" are Black pieces, uppercase the
// White ones, anything else is an empty cell. Short input leaves the remaining
// cells empty and extra characters are ignored; only reader failures are errors.
func ReadBoard(r io.Reader) (*Position, error) {
	pos := NewPosition()
	br := bufio.NewReader(r)
	count := 0

	for count < 64 {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading board setup: %w", err)
		}
		if c == '\n' || c == '\r' {
			continue
		}
		pos.Place(Square(count), PieceFromChar(c))
		count++
	}

	return pos, nil
}

// ParseBoard parses a setup grid held in a string.
func ParseBoard(s string) (*Position, error) {
	return ReadBoard(strings.NewReader(s))
}

// LoadBoardFile reads a setup grid from a file.
func LoadBoardFile(path string) (*Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBoard(f)
}

// SetupString writes the position as a setup grid, one row per line.
// Moved/unmoved state is not part of the format.
func (p *Position) SetupString() string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sb.WriteByte(p.cells[NewSquare(x, y)].Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
