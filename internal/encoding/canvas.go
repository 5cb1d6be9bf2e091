package encoding

import (
	"image"

	"golang.org/x/image/draw"
)

// canvas is the fixed output size every frame is fitted to.
type canvas struct {
	width  int
	height int
}

func newCanvas(width, height int, first image.Rectangle) *canvas {
	sw, sh := first.Dx(), first.Dy()
	switch {
	case width == 0 && height == 0:
		width, height = sw, sh
	case width == 0 && sh > 0:
		width = max(1, sw*height/sh)
	case height == 0 && sw > 0:
		height = max(1, sh*width/sw)
	}
	return &canvas{width: width, height: height}
}

func (c *canvas) bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// fit returns img unchanged when it already matches the canvas, otherwise a
// bilinear-scaled copy.
func (c *canvas) fit(img image.Image) image.Image {
	src := img.Bounds()
	if src.Dx() == c.width && src.Dy() == c.height {
		return img
	}
	dst := image.NewNRGBA(c.bounds())
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
