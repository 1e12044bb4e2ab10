package snapfit

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const hudPadding = 6

// RenderHUD rasterizes the overlay lines onto a translucent panel.
func RenderHUD(lines []string) *image.RGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil() + 2

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	width += 2 * hudPadding
	height := len(lines)*lineHeight + 2*hudPadding

	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 180}}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(hudPadding, hudPadding+i*lineHeight+metrics.Ascent.Ceil())
		d.DrawString(l)
	}
	return img
}

// WriteHUDPNG writes the rendered overlay to path.
func WriteHUDPNG(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write hud: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, RenderHUD(lines)); err != nil {
		return fmt.Errorf("write hud: %w", err)
	}
	return nil
}
