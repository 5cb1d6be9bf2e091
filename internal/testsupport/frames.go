package testsupport

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// WriteFramePNG writes a solid-color PNG of the given size.
func WriteFramePNG(t testing.TB, path string, width, height int, c color.NRGBA) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteFrameSequence writes one PNG per color into dir, named frame_0000.png
// onwards, and returns the paths in order.
func WriteFrameSequence(t testing.TB, dir string, width, height int, colors ...color.NRGBA) []string {
	t.Helper()

	paths := make([]string, len(colors))
	for i, c := range colors {
		paths[i] = filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		WriteFramePNG(t, paths[i], width, height, c)
	}
	return paths
}

// Gray returns an opaque gray level, handy for building frame sequences whose
// similarity is easy to reason about.
func Gray(level uint8) color.NRGBA {
	return color.NRGBA{R: level, G: level, B: level, A: 255}
}
