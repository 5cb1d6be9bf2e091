// Package imagecodec decodes still frames into flat NRGBA pixel buffers and
// writes PNG results for the single-shot image commands.
package imagecodec

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder decodes frame files into NRGBA pixel bytes. Frames with equal
// dimensions always produce buffers of equal length.
type Decoder struct{}

// Decode implements frame.Decoder.
func (Decoder) Decode(path string) ([]byte, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img).Pix, nil
}

// Open decodes the image at path using any registered format.
func Open(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	if format == "" {
		return nil, fmt.Errorf("decode image %s: unknown format", filepath.Base(path))
	}
	return img, nil
}

// ToNRGBA returns img as a tightly packed NRGBA image anchored at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) && nrgba.Stride == 4*nrgba.Rect.Dx() {
		return nrgba
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}

// SavePNG writes img to path as PNG, creating parent directories as needed.
func SavePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}

// SupportedExtension reports whether ext (without a leading dot) names a
// format this package can decode.
func SupportedExtension(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp":
		return true
	default:
		return false
	}
}
