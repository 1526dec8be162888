// Package export renders a document's plain-text layout into a PNG
// image, for sharing a record set outside the terminal.
package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/voidwyrm/revw/internal/record"
)

const (
	charWidth  = 8.0
	charHeight = 16.0
	fontSize   = 12.0
	padding    = 2 // character cells around the text block
)

var (
	background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	foreground = color.RGBA{R: 0xcd, G: 0xd6, B: 0xf4, A: 0xff}
	heading    = color.RGBA{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff}
)

// Render draws the document onto a new drawing context: monospace text
// on a dark background, section headers accented.
func Render(d *record.Document) (*gg.Context, error) {
	text := d.RenderAll()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("export: nothing to render")
	}
	lines := strings.Split(text, "\n")

	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}

	imageWidth := int(float64(width+2*padding) * charWidth)
	imageHeight := int(float64(len(lines)+2*padding) * charHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(background)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for i, line := range lines {
		if line == "" {
			continue
		}
		if line == record.SectionOutside.String() || line == record.SectionInside.String() {
			dc.SetColor(heading)
		} else {
			dc.SetColor(foreground)
		}
		x := padding * charWidth
		y := float64(padding+i) * charHeight
		dc.DrawString(line, x, y)
	}

	return dc, nil
}

// WritePNG renders the document and writes the image to filename.
func WritePNG(d *record.Document, filename string) error {
	dc, err := Render(d)
	if err != nil {
		return err
	}
	return dc.SavePNG(filename)
}
