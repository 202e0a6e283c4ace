package render

import (
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	// Parsed fonts for piece letters and coordinate labels
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func init() {
	initFonts()
}

func initFonts() {
	var err error
	if regularFont, err = opentype.Parse(goregular.TTF); err != nil {
		log.Printf("Failed to load regular font: %v", err)
	}
	if boldFont, err = opentype.Parse(gobold.TTF); err != nil {
		log.Printf("Failed to load bold font: %v", err)
	}
}

// newFace returns a face of f at the given pixel size, or nil if the font is
// unavailable.
func newFace(f *opentype.Font, size float64) font.Face {
	if f == nil || size <= 0 {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("Failed to create font face: %v", err)
		return nil
	}
	return face
}
