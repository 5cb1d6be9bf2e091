package encoding

import (
	"image"
	"testing"
	"time"
)

func TestGifDelaysDoNotDrift(t *testing.T) {
	stamps := make([]time.Duration, 5)
	for i := range stamps {
		stamps[i] = FrameTimestamp(i, 24)
	}
	got := gifDelays(stamps, 24)
	want := []int{4, 4, 5, 4, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delays = %v, want %v", got, want)
		}
	}
}

func TestGifDelaysSingleFrameUsesFrameRate(t *testing.T) {
	got := gifDelays([]time.Duration{0}, 10)
	if len(got) != 1 || got[0] != 10 {
		t.Fatalf("delays = %v, want [10]", got)
	}
}

func TestGifDelaysNeverZero(t *testing.T) {
	got := gifDelays([]time.Duration{0, time.Millisecond, 2 * time.Millisecond}, 1000)
	for i, d := range got {
		if d < 1 {
			t.Fatalf("delay %d = %d", i, d)
		}
	}
}

func TestNewCanvas(t *testing.T) {
	src := image.Rect(0, 0, 200, 100)
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"source size", 0, 0, 200, 100},
		{"width only keeps aspect", 100, 0, 100, 50},
		{"height only keeps aspect", 0, 25, 50, 25},
		{"both fixed", 64, 64, 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCanvas(tt.width, tt.height, src)
			if c.width != tt.wantW || c.height != tt.wantH {
				t.Fatalf("canvas = %dx%d, want %dx%d", c.width, c.height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCanvasFitScales(t *testing.T) {
	c := &canvas{width: 4, height: 4}
	same := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if c.fit(same) != image.Image(same) {
		t.Fatal("matching image should be returned unchanged")
	}
	scaled := c.fit(image.NewNRGBA(image.Rect(0, 0, 8, 2)))
	if scaled.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("scaled bounds = %v", scaled.Bounds())
	}
}

func TestPaletteSize(t *testing.T) {
	cases := map[int]int{-5: 2, 1: 2, 50: 127, 90: 230, 100: 256, 300: 256}
	for quality, want := range cases {
		if got := paletteSize(quality); got != want {
			t.Fatalf("paletteSize(%d) = %d, want %d", quality, got, want)
		}
	}
}
