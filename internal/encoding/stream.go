package encoding

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"
)

// Reporter receives one Increase per accepted frame and a Done summary.
type Reporter interface {
	Increase()
	Done(msg string)
}

type queuedFrame struct {
	index     int
	path      string
	timestamp time.Duration
	img       image.Image
}

// stream is the state shared by a Collector and its Writer.
type stream struct {
	settings Settings
	frames   chan queuedFrame

	closeOnce sync.Once
	stopOnce  sync.Once
	// stopped is closed when the writer gives up; producers stop blocking.
	stopped chan struct{}

	mu        sync.Mutex
	inputErr  error
	closed    bool
	lastIndex int
	added     int
}

// Collector is the producer half: it decodes frames and queues them in order.
type Collector struct {
	s *stream
}

// Writer is the consumer half: it encodes queued frames into a sink.
type Writer struct {
	s *stream
}

// New returns a connected Collector and Writer.
func New(settings Settings) (*Collector, *Writer, error) {
	resolved, err := settings.withDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	s := &stream{
		settings:  resolved,
		frames:    make(chan queuedFrame, resolved.QueueSize),
		stopped:   make(chan struct{}),
		lastIndex: -1,
	}
	return &Collector{s: s}, &Writer{s: s}, nil
}

// AddFrame decodes the frame at path and queues it with its presentation
// timestamp. Indices must increase. It fails once the writer has stopped.
// AddFrame must not race with Close; both belong to the producer goroutine.
func (c *Collector) AddFrame(index int, path string, timestamp time.Duration) error {
	s := c.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: frame %d added after close", ErrEncode, index)
	}
	if index <= s.lastIndex {
		s.mu.Unlock()
		return fmt.Errorf("%w: frame %d added after frame %d", ErrEncode, index, s.lastIndex)
	}
	s.lastIndex = index
	s.mu.Unlock()

	select {
	case <-s.stopped:
		return fmt.Errorf("%w: writer stopped before frame %d", ErrEncode, index)
	default:
	}

	img, err := s.settings.Open(path)
	if err != nil {
		return fmt.Errorf("%w: frame %d (%s): %w", ErrEncode, index, path, err)
	}

	select {
	case s.frames <- queuedFrame{index: index, path: path, timestamp: timestamp, img: img}:
		s.mu.Lock()
		s.added++
		s.mu.Unlock()
		return nil
	case <-s.stopped:
		return fmt.Errorf("%w: writer stopped before frame %d", ErrEncode, index)
	}
}

// Close marks the end of input. It is safe to call more than once.
func (c *Collector) Close() {
	c.CloseWithError(nil)
}

// CloseWithError ends input and makes the writer fail with err instead of
// finalizing a partial animation.
func (c *Collector) CloseWithError(err error) {
	s := c.s
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.inputErr = err
		s.closed = true
		s.mu.Unlock()
		close(s.frames)
	})
}

// Write drains queued frames in order, reporting each one, then finalizes the
// animation into sink. It returns after the collector is closed and every
// queued frame is consumed.
func (w *Writer) Write(sink io.Writer, reporter Reporter) (err error) {
	s := w.s
	defer s.stop()

	enc, err := newAnimationEncoder(s.settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	defer func() {
		if cerr := enc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrEncode, cerr)
		}
	}()

	var frameCanvas *canvas
	count := 0
	for f := range s.frames {
		if frameCanvas == nil {
			frameCanvas = newCanvas(s.settings.Width, s.settings.Height, f.img.Bounds())
		}
		if err := enc.Add(frameCanvas.fit(f.img), f.timestamp); err != nil {
			return fmt.Errorf("%w: frame %d (%s): %w", ErrEncode, f.index, f.path, err)
		}
		count++
		if reporter != nil {
			reporter.Increase()
		}
	}

	s.mu.Lock()
	inputErr := s.inputErr
	s.mu.Unlock()
	if inputErr != nil {
		if errors.Is(inputErr, ErrEncode) {
			return inputErr
		}
		return fmt.Errorf("%w: %w", ErrEncode, inputErr)
	}
	if count == 0 {
		return fmt.Errorf("%w: no frames were added", ErrEncode)
	}
	if err := enc.Finish(sink); err != nil {
		return fmt.Errorf("%w: finalize %s: %w", ErrEncode, s.settings.Format, err)
	}
	if reporter != nil {
		reporter.Done(fmt.Sprintf("encoded %d frames", count))
	}
	return nil
}

func (s *stream) stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}
