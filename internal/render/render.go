// Package render draws board snapshots as SVG documents and PNG images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/minichess/internal/board"
)

// Board colors
var (
	LightSquare = color.RGBA{0xEE, 0xEE, 0xD2, 0xFF}
	DarkSquare  = color.RGBA{0x76, 0x96, 0x56, 0xFF}
	Highlight   = color.RGBA{0xF6, 0xF6, 0x69, 0xFF}
	CheckColor  = color.RGBA{0xE0, 0x40, 0x40, 0xFF}
	Background  = color.RGBA{0x30, 0x2E, 0x2B, 0xFF}
	WhitePiece  = color.RGBA{0xFA, 0xFA, 0xFA, 0xFF}
	BlackPiece  = color.RGBA{0x20, 0x20, 0x20, 0xFF}
)

// DefaultSize is the image width and height used when Options.Size is unset.
const DefaultSize = 480

// Options controls a snapshot.
type Options struct {
	Size        int        // Image width and height in pixels
	Flip        bool       // Draw from Black's side
	LastMove    board.Move // Squares to highlight (NoMove for none)
	Coordinates bool       // Draw file and rank labels in a margin
}

// layout is the pixel geometry of one snapshot.
type layout struct {
	size   int
	margin float64
	square float64
	flip   bool
}

func newLayout(opts Options) layout {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	l := layout{size: size, flip: opts.Flip}
	if opts.Coordinates {
		l.margin = float64(size) / 16
	}
	l.square = (float64(size) - 2*l.margin) / 8
	return l
}

// origin returns the top-left pixel of a square.
func (l layout) origin(sq board.Square) (float64, float64) {
	col, row := sq.X(), sq.Y()
	if l.flip {
		col, row = 7-col, 7-row
	}
	return l.margin + float64(col)*l.square, l.margin + float64(row)*l.square
}

func (l layout) center(sq board.Square) (float64, float64) {
	x, y := l.origin(sq)
	return x + l.square/2, y + l.square/2
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// checkedKings returns the squares of kings that are currently attacked.
func checkedKings(pos *board.Position) []board.Square {
	var out []board.Square
	for _, c := range []board.Color{board.White, board.Black} {
		if sq, ok := pos.KingSquare(c); ok && pos.IsSquareAttacked(sq, c.Other()) {
			out = append(out, sq)
		}
	}
	return out
}

// SVG returns an SVG document of the board: squares, highlights and a disc per
// piece. Piece letters are not part of the document; PNG draws them on top.
func SVG(pos *board.Position, opts Options) []byte {
	l := newLayout(opts)
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		l.size, l.size, l.size, l.size)
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", l.size, l.size, hex(Background))

	highlighted := map[board.Square]bool{}
	if opts.LastMove != board.NoMove {
		highlighted[opts.LastMove.From] = true
		highlighted[opts.LastMove.To] = true
	}

	for sq := board.A8; sq < board.NoSquare; sq++ {
		fill := LightSquare
		if (sq.X()+sq.Y())%2 == 1 {
			fill = DarkSquare
		}
		if highlighted[sq] {
			fill = Highlight
		}
		x, y := l.origin(sq)
		fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			x, y, l.square, l.square, hex(fill))
	}

	for _, sq := range checkedKings(pos) {
		cx, cy := l.center(sq)
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			cx, cy, l.square*0.48, hex(CheckColor))
	}

	for sq := board.A8; sq < board.NoSquare; sq++ {
		pc := pos.PieceAt(sq)
		if pc.IsNone() {
			continue
		}
		fill, stroke := WhitePiece, BlackPiece
		if pc.Color == board.Black {
			fill, stroke = BlackPiece, WhitePiece
		}
		cx, cy := l.center(sq)
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
			cx, cy, l.square*0.38, hex(fill), hex(stroke), l.square*0.04)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// Image rasterizes the board into an RGBA image with piece letters and, if
// requested, coordinate labels.
func Image(pos *board.Position, opts Options) (*image.RGBA, error) {
	l := newLayout(opts)

	icon, err := oksvg.ReadIconStream(bytes.NewReader(SVG(pos, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(l.size), float64(l.size))

	rgba := image.NewRGBA(image.Rect(0, 0, l.size, l.size))
	scanner := rasterx.NewScannerGV(l.size, l.size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(l.size, l.size, scanner)
	icon.Draw(raster, 1.0)

	drawLetters(rgba, pos, l)
	if opts.Coordinates {
		drawCoordinates(rgba, l)
	}
	return rgba, nil
}

// PNG writes the board as a PNG image.
func PNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Image(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawCentered draws s centered on (cx, cy).
func drawCentered(dst *image.RGBA, face font.Face, c color.Color, s string, cx, cy float64) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	width := d.MeasureString(s)
	m := face.Metrics()
	x := fixed.Int26_6(cx*64) - width/2
	y := fixed.Int26_6(cy*64) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(s)
}

func drawLetters(dst *image.RGBA, pos *board.Position, l layout) {
	face := newFace(boldFont, l.square*0.45)
	if face == nil {
		return
	}
	defer face.Close()

	for sq := board.A8; sq < board.NoSquare; sq++ {
		pc := pos.PieceAt(sq)
		if pc.IsNone() {
			continue
		}
		ink := BlackPiece
		if pc.Color == board.Black {
			ink = WhitePiece
		}
		letter := string(pc.Type.Char() - ('a' - 'A'))
		cx, cy := l.center(sq)
		drawCentered(dst, face, ink, letter, cx, cy)
	}
}

func drawCoordinates(dst *image.RGBA, l layout) {
	face := newFace(regularFont, l.margin*0.6)
	if face == nil {
		return
	}
	defer face.Close()

	for i := 0; i < 8; i++ {
		file, rank := i, i
		if l.flip {
			file, rank = 7-i, 7-i
		}
		offset := l.margin + (float64(i)+0.5)*l.square
		files := string(rune('a' + file))
		ranks := string(rune('8' - rank))

		drawCentered(dst, face, LightSquare, files, offset, l.margin/2)
		drawCentered(dst, face, LightSquare, files, offset, float64(l.size)-l.margin/2)
		drawCentered(dst, face, LightSquare, ranks, l.margin/2, offset)
		drawCentered(dst, face, LightSquare, ranks, float64(l.size)-l.margin/2, offset)
	}
}
