package imageops

import (
	"errors"
	"fmt"
	"image"

	"seamless/internal/imagecodec"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// BorderColors holds the average colors of an image's first and last rows.
type BorderColors struct {
	First RGB
	Last  RGB
}

// Borders averages the first and last pixel rows of img. Channel averages are
// truncated toward zero.
func Borders(img image.Image) (BorderColors, error) {
	src := imagecodec.ToNRGBA(img)
	width, height := src.Rect.Dx(), src.Rect.Dy()
	if width == 0 || height == 0 {
		return BorderColors{}, errors.New("image has no pixels")
	}
	return BorderColors{
		First: rowAverage(src, 0),
		Last:  rowAverage(src, height-1),
	}, nil
}

func rowAverage(img *image.NRGBA, y int) RGB {
	width := img.Rect.Dx()
	row := img.Pix[y*img.Stride : y*img.Stride+width*4]
	var r, g, b int
	for x := 0; x < len(row); x += 4 {
		r += int(row[x])
		g += int(row[x+1])
		b += int(row[x+2])
	}
	return RGB{R: uint8(r / width), G: uint8(g / width), B: uint8(b / width)}
}
