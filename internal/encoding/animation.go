package encoding

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"io"
	"math"
	"os"
	"time"

	"github.com/icza/mjpeg"
	"github.com/soniakeys/quant/median"
	"golang.org/x/image/draw"

	"seamless/internal/config"
)

type animationEncoder interface {
	Add(img image.Image, timestamp time.Duration) error
	Finish(sink io.Writer) error
	Close() error
}

func newAnimationEncoder(s Settings) (animationEncoder, error) {
	switch s.Format {
	case config.FormatGIF:
		return &gifEncoder{settings: s}, nil
	case config.FormatMJPEG:
		return &mjpegEncoder{settings: s}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", s.Format)
	}
}

type gifEncoder struct {
	settings Settings
	frames   []*image.Paletted
	stamps   []time.Duration
}

func (g *gifEncoder) Add(img image.Image, timestamp time.Duration) error {
	src := img.Bounds()
	size := paletteSize(g.settings.Quality)
	pal := median.Quantizer(size).Quantize(make(color.Palette, 0, size), img)
	if len(pal) == 0 {
		return fmt.Errorf("quantize frame: empty palette")
	}
	paletted := image.NewPaletted(image.Rect(0, 0, src.Dx(), src.Dy()), pal)
	if g.settings.Dither {
		draw.FloydSteinberg.Draw(paletted, paletted.Rect, img, src.Min)
	} else {
		draw.Draw(paletted, paletted.Rect, img, src.Min, draw.Src)
	}
	g.frames = append(g.frames, paletted)
	g.stamps = append(g.stamps, timestamp)
	return nil
}

func (g *gifEncoder) Finish(sink io.Writer) error {
	return gif.EncodeAll(sink, &gif.GIF{
		Image:     g.frames,
		Delay:     gifDelays(g.stamps, g.settings.FPS),
		LoopCount: g.settings.LoopCount,
	})
}

func (g *gifEncoder) Close() error { return nil }

// paletteSize maps quality 1..100 onto a per-frame palette of 2..256 colours.
func paletteSize(quality int) int {
	quality = min(max(quality, 1), 100)
	return 2 + (quality-1)*254/99
}

// gifDelays converts presentation timestamps into per-frame delays in
// hundredths of a second. Rounding happens on absolute times so the total
// duration does not drift. The last frame repeats the previous delay.
func gifDelays(stamps []time.Duration, fps int) []int {
	delays := make([]int, len(stamps))
	if len(stamps) == 0 {
		return delays
	}
	centis := func(d time.Duration) int {
		return int(math.Round(d.Seconds() * 100))
	}
	fallback := 1
	if fps > 0 {
		fallback = max(1, int(math.Round(100/float64(fps))))
	}
	for k := 0; k < len(stamps)-1; k++ {
		delays[k] = max(1, centis(stamps[k+1])-centis(stamps[k]))
	}
	last := len(stamps) - 1
	if last > 0 {
		delays[last] = delays[last-1]
	} else {
		delays[last] = fallback
	}
	return delays
}

// mjpegEncoder streams JPEG frames into an AVI container on disk, then copies
// the finished file into the sink.
type mjpegEncoder struct {
	settings Settings
	tmpPath  string
	writer   mjpeg.AviWriter
	closed   bool
	buf      bytes.Buffer
}

func (m *mjpegEncoder) Add(img image.Image, _ time.Duration) error {
	if m.writer == nil {
		tmp, err := os.CreateTemp(m.settings.TempDir, "seamless-*.avi")
		if err != nil {
			return fmt.Errorf("create temp avi: %w", err)
		}
		m.tmpPath = tmp.Name()
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("create temp avi: %w", err)
		}
		bounds := img.Bounds()
		writer, err := mjpeg.New(m.tmpPath, int32(bounds.Dx()), int32(bounds.Dy()), int32(m.settings.FPS))
		if err != nil {
			return fmt.Errorf("open avi writer: %w", err)
		}
		m.writer = writer
	}

	m.buf.Reset()
	if err := jpeg.Encode(&m.buf, img, &jpeg.Options{Quality: m.settings.Quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return m.writer.AddFrame(m.buf.Bytes())
}

func (m *mjpegEncoder) Finish(sink io.Writer) error {
	if m.writer == nil {
		return fmt.Errorf("no frames written")
	}
	m.closed = true
	if err := m.writer.Close(); err != nil {
		return fmt.Errorf("close avi: %w", err)
	}
	file, err := os.Open(m.tmpPath)
	if err != nil {
		return fmt.Errorf("open avi: %w", err)
	}
	defer file.Close()
	if _, err := io.Copy(sink, file); err != nil {
		return fmt.Errorf("copy avi: %w", err)
	}
	return nil
}

func (m *mjpegEncoder) Close() error {
	if m.writer != nil && !m.closed {
		m.closed = true
		_ = m.writer.Close()
	}
	if m.tmpPath != "" {
		if err := os.Remove(m.tmpPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
