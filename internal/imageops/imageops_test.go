package imageops_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"seamless/internal/imageops"
)

func TestKernelValues(t *testing.T) {
	cases := []struct {
		x, y int
		want float64
	}{
		{0, 0, 71},
		{-1, -1, 45},
		{0, -1, 57},
	}
	for _, tc := range cases {
		got := math.Round(imageops.Kernel(tc.x, tc.y, 1.5) * 1000)
		if got != tc.want {
			t.Fatalf("Kernel(%d, %d, 1.5)*1000 = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestKernelMatrixCentered(t *testing.T) {
	m := imageops.KernelMatrix(4, 1)
	if len(m) != 4 || len(m[0]) != 4 {
		t.Fatalf("unexpected matrix shape %dx%d", len(m), len(m[0]))
	}
	if m[2][2] != imageops.Kernel(0, 0, 1) {
		t.Fatalf("center weight = %v", m[2][2])
	}
	if m[0][0] != imageops.Kernel(-2, -2, 1) {
		t.Fatalf("corner weight = %v", m[0][0])
	}
}

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestGaussianUniformImage(t *testing.T) {
	fill := color.NRGBA{R: 120, G: 60, B: 30, A: 255}
	out, err := imageops.Gaussian(uniform(8, 6, fill), 1, 1)
	if err != nil {
		t.Fatalf("Gaussian: %v", err)
	}
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 6 {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if got := out.NRGBAAt(3, 3); got != fill {
		t.Fatalf("interior pixel = %v, want %v", got, fill)
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{}) {
		t.Fatalf("border pixel = %v, want transparent", got)
	}
	if got := out.NRGBAAt(7, 5); got != (color.NRGBA{}) {
		t.Fatalf("far border pixel = %v, want transparent", got)
	}
}

func TestGaussianRejectsInvalidKernel(t *testing.T) {
	img := uniform(4, 4, color.NRGBA{A: 255})
	if _, err := imageops.Gaussian(img, 0, 1); !errors.Is(err, imageops.ErrInvalidKernel) {
		t.Fatalf("radius 0: expected ErrInvalidKernel, got %v", err)
	}
	if _, err := imageops.Gaussian(img, 2, 0); !errors.Is(err, imageops.ErrInvalidKernel) {
		t.Fatalf("sigma 0: expected ErrInvalidKernel, got %v", err)
	}
}

func TestBorders(t *testing.T) {
	img := uniform(3, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{R: 11, G: 255, B: 0, A: 255})
	img.SetNRGBA(2, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	got, err := imageops.Borders(img)
	if err != nil {
		t.Fatalf("Borders: %v", err)
	}
	// first row: R (11+10+10)/3=10, G (255+20+20)/3=98, B (0+30+30)/3=20
	if got.First.Hex() != "#0A6214" {
		t.Fatalf("first row = %s", got.First.Hex())
	}
	// last row: R (10+10+255)/3=91, G (20+20+255)/3=98, B (30+30+255)/3=105
	if got.Last.Hex() != "#5B6269" {
		t.Fatalf("last row = %s", got.Last.Hex())
	}
}

func TestBordersEmptyImage(t *testing.T) {
	if _, err := imageops.Borders(image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("expected error for empty image")
	}
}
