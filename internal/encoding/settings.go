package encoding

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"seamless/internal/config"
	"seamless/internal/imagecodec"
)

// ErrEncode reports that a frame could not be added or the output could not
// be finalized.
var ErrEncode = errors.New("encode failed")

// Settings configures the animation encoder.
type Settings struct {
	Format string
	// Width and Height fix the canvas; 0 derives it from the first frame,
	// keeping its aspect ratio when only one side is set.
	Width  int
	Height int
	FPS    int
	// Quality (1-100) sets the JPEG quality of MJPEG frames and the size of
	// each GIF frame's adaptive palette.
	Quality   int
	Dither    bool
	LoopCount int
	// QueueSize bounds decoded frames waiting for the writer.
	QueueSize int
	// TempDir holds intermediate AVI data for MJPEG output.
	TempDir string
	// Open decodes a frame file; defaults to imagecodec.Open.
	Open func(path string) (image.Image, error)
}

// SettingsFromConfig maps the [encode] config section onto Settings.
func SettingsFromConfig(cfg config.Encode) Settings {
	return Settings{
		Format:    cfg.Format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		FPS:       cfg.FPS,
		Quality:   cfg.Quality,
		Dither:    cfg.Dither,
		LoopCount: cfg.LoopCount,
	}
}

func (s Settings) withDefaults() (Settings, error) {
	s.Format = strings.ToLower(strings.TrimSpace(s.Format))
	if s.Format == "" {
		s.Format = config.FormatGIF
	}
	switch s.Format {
	case config.FormatGIF, config.FormatMJPEG:
	default:
		return s, fmt.Errorf("unsupported output format %q", s.Format)
	}
	if s.FPS <= 0 {
		s.FPS = 24
	}
	if s.Quality <= 0 || s.Quality > 100 {
		s.Quality = 90
	}
	if s.Width < 0 || s.Height < 0 {
		return s, fmt.Errorf("invalid canvas %dx%d", s.Width, s.Height)
	}
	if s.QueueSize <= 0 {
		s.QueueSize = 8
	}
	if s.TempDir == "" {
		s.TempDir = os.TempDir()
	}
	if s.Open == nil {
		s.Open = imagecodec.Open
	}
	return s, nil
}
