// Package frame holds one frame's lazily decoded pixel buffer and lets any
// number of readers block until the buffer has been loaded.
package frame

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrDecode reports that a frame's bytes could not be decoded into pixels.
var ErrDecode = errors.New("frame decode failed")

// Decoder turns the file at path into a flat pixel buffer. Buffers of frames
// with the same dimensions have the same length.
type Decoder interface {
	Decode(path string) ([]byte, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(path string) ([]byte, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) ([]byte, error) {
	return f(path)
}

// Handle wraps a single frame. The loader is the only writer; readers block
// in WaitReady until Load has stored the buffer.
type Handle struct {
	index int
	path  string

	mu        sync.RWMutex
	data      []byte
	ready     chan struct{}
	readyOnce sync.Once
}

// NewHandle returns an unloaded handle for the frame at path.
func NewHandle(index int, path string) *Handle {
	return &Handle{
		index: index,
		path:  path,
		ready: make(chan struct{}),
	}
}

// Index returns the frame's position in its catalog.
func (h *Handle) Index() int { return h.index }

// Path returns the frame's source path.
func (h *Handle) Path() string { return h.path }

// Load decodes the frame and marks it ready, waking every blocked waiter.
// Calling Load again replaces the buffer; slices handed out earlier are never
// modified.
func (h *Handle) Load(dec Decoder) error {
	if dec == nil {
		return fmt.Errorf("%w: frame %d (%s): no decoder", ErrDecode, h.index, h.path)
	}
	buf, err := dec.Decode(h.path)
	if err != nil {
		return fmt.Errorf("%w: frame %d (%s): %w", ErrDecode, h.index, h.path, err)
	}
	h.Store(buf)
	return nil
}

// Store installs an already decoded buffer and marks the frame ready.
func (h *Handle) Store(buf []byte) {
	h.mu.Lock()
	h.data = buf
	h.mu.Unlock()
	// The buffer write above happens-before the close, so readers woken by
	// the channel always see the complete buffer.
	h.readyOnce.Do(func() { close(h.ready) })
}

// Ready reports whether Load has completed. It never blocks.
func (h *Handle) Ready() bool {
	select {
	case <-h.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the frame is loaded or ctx is done. It returns
// immediately when Load already completed. The returned buffer is shared and
// must be treated as read-only.
func (h *Handle) WaitReady(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-h.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data, nil
}

// Data returns a copy of the pixel buffer, or false when the frame has not
// been loaded yet.
func (h *Handle) Data() ([]byte, bool) {
	if !h.Ready() {
		return nil, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]byte, len(h.data))
	copy(out, h.data)
	return out, true
}
